// Package pool
// Author: momentics <momentics@gmail.com>
//
// Storage pooling for hioload-vbuf. Ring buffers created with vbuf.New draw
// their backing region from Default() and give it back on Delete, so
// short-lived pipes do not churn the allocator.
package pool
