// Package stream provides the generic, seekable byte source every other
// package in this module reads packets from, plus the streaming decode
// loop and sub-commutated telemetry reassembler built on top of it.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream is the minimal read+seek surface every decoder in this module
// needs. It is satisfied by both a *tiledb.VFSfh (files on disk or in an
// object store) and a *bytes.Reader (an in-memory buffer), so packet
// decoding never has to care which backed it.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// ErrClosed is returned by operations attempted on a File after Close.
var ErrClosed = errors.New("stream: file already closed")

// GenericStream wraps stream either as-is (inmem == false) or by reading
// the whole of it up front into a bytes.Reader (inmem == true), trading
// memory for random-access seeks that don't round-trip to the backing
// store.
func GenericStream(stream *tiledb.VFSfh, size uint64, inmem bool) (Stream, error) {
	if !inmem {
		return stream, nil
	}

	buffer := make([]byte, size)
	if err := binary.Read(stream, binary.BigEndian, &buffer); err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// Tell reports the stream's current byte offset.
func Tell(s Stream) (int64, error) {
	return s.Seek(0, 1)
}

// File is an opened ISP product (a raw telemetry file or its companion
// Level-0 index file) together with the TileDB VFS handles backing it.
type File struct {
	URI      string
	filesize uint64
	config   *tiledb.Config
	ctx      *tiledb.Context
	vfs      *tiledb.VFS
	handler  *tiledb.VFSfh
	closed   bool
	Stream
}

// Open opens uri for streamed IO. When configURI is empty a default
// TileDB configuration is used. inMemory controls whether the whole file
// is buffered up front (see GenericStream).
func Open(uri string, configURI string, inMemory bool) (*File, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}

	handler, err := vfs.Open(uri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}

	filesize, err := vfs.FileSize(uri)
	if err != nil {
		return nil, err
	}

	genStream, err := GenericStream(handler, filesize, inMemory)
	if err != nil {
		return nil, err
	}

	return &File{
		URI:      uri,
		filesize: filesize,
		config:   config,
		ctx:      ctx,
		vfs:      vfs,
		handler:  handler,
		Stream:   genStream,
	}, nil
}

// Size returns the file's total byte length.
func (f *File) Size() uint64 {
	return f.filesize
}

// Close releases the underlying TileDB VFS handles. It is safe to call
// once; a second call is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.handler.Close(); err != nil {
		return err
	}
	f.vfs.Free()
	f.ctx.Free()
	f.config.Free()
	return nil
}

// ReadExact reads exactly len(buf) bytes from the stream's current
// position, the read_exact primitive §4.5 describes the streaming
// decoder as being built on.
func ReadExact(s Stream, buf []byte) error {
	_, err := io.ReadFull(s, buf)
	return err
}

// ReadAt seeks to byte offset off and then reads exactly len(buf) bytes,
// like ReadExact from an absolute position.
func ReadAt(s Stream, off int64, buf []byte) error {
	if _, err := s.Seek(off, 0); err != nil {
		return err
	}
	_, err := io.ReadFull(s, buf)
	return err
}
