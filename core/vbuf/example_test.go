package vbuf_test

import (
	"fmt"
	"os"

	"github.com/momentics/hioload-vbuf/api"
	"github.com/momentics/hioload-vbuf/core/vbuf"
)

func ExampleBuffer() {
	b := vbuf.New(16)
	defer b.Delete()

	b.Put([]byte("GET / HTTP/1.0\n"))
	line := make([]byte, b.IndexByte('\n')+1)
	b.Get(line)
	fmt.Printf("%q\n", line)
	// Output:
	// "GET / HTTP/1.0\n"
}

func ExampleBuffer_WriteStream() {
	b := vbuf.New(32)
	defer b.Delete()

	b.Put([]byte("flushed through the ring\n"))
	if _, err := b.WriteStream(os.Stdout, api.SizeAll); err != nil {
		fmt.Println(err)
	}
	// Output:
	// flushed through the ring
}
