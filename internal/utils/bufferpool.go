// Package utils holds small helpers shared across services.
package utils

import "github.com/valyala/bytebufferpool"

// payloadPool recycles the buffers record payloads are serialized through.
var payloadPool bytebufferpool.Pool

// Get retrieves a pooled buffer. Return it with Put when done.
func Get() *bytebufferpool.ByteBuffer {
	return payloadPool.Get()
}

// Put returns a buffer to the pool.
func Put(buf *bytebufferpool.ByteBuffer) {
	payloadPool.Put(buf)
}
