// Package events provides event bus implementations for forecast events.
//
// Implementations:
//   - redis: Redis Streams with consumer groups
//   - memory: in-process fan-out, used when no Redis is configured
package events
