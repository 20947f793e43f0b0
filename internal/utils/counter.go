package utils

import "io"

// ReadCounter 统计读取的字节数
type ReadCounter struct {
	Count  int
	Reader io.Reader
}

func (r *ReadCounter) Read(p []byte) (n int, err error) {
	n, err = r.Reader.Read(p)
	r.Count += n
	return
}

type WriteCounter struct {
	Count  int
	Writer io.Writer
}

func (w *WriteCounter) Write(p []byte) (n int, err error) {
	n, err = w.Writer.Write(p)
	w.Count += n
	return
}
