package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/file"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

func main() {
	opts := util.DefaultOptions()
	flag.StringVar(&opts.Path, "path", "arraydb.data", "path to the data file")
	flag.IntVar(&opts.BufferPoolSize, "bufs", 8, "number of buffer frames")
	flag.BoolVar(&opts.SyncWrites, "sync", opts.SyncWrites, "fsync the data file after every write")
	flag.BoolVar(&opts.ReadOnly, "readonly", opts.ReadOnly, "open the data file read-only")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	f, err := file.NewFileManagerWithOptions(opts)
	if err != nil {
		logger.Error("open file", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	bm := buffer.New(opts.BufferPoolSize, buffer.WithLogger(logger))

	pageNo, p, err := bm.AllocPage(f)
	if err != nil {
		logger.Error("alloc page", "err", err)
		os.Exit(1)
	}
	copy(p.Data[:], []byte("hello, array-db"))
	if err := bm.UnpinPage(f, pageNo, true); err != nil {
		logger.Error("unpin page", "err", err)
		os.Exit(1)
	}

	if err := bm.FlushFile(f); err != nil {
		logger.Error("flush file", "err", err)
		os.Exit(1)
	}

	got, err := bm.ReadPage(f, pageNo)
	if err != nil {
		logger.Error("read page", "err", err)
		os.Exit(1)
	}
	fmt.Printf("page %d round trip: %q\n", pageNo, string(got.Data[:15]))
	if err := bm.UnpinPage(f, pageNo, false); err != nil {
		logger.Error("unpin page", "err", err)
		os.Exit(1)
	}

	bm.PrintSelf()
	fmt.Printf("pool footprint: %s\n", humanize.IBytes(uint64(opts.BufferPoolSize)*util.PageSize))
}
