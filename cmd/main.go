package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/aligator/goatfs"
	"github.com/spf13/afero"
)

const usage = `usage: atfs <image> <command> [args]

commands:
  format <blocks> [blocksize]
  ls [path]
  tree
  find <pattern>
  mkdir <path> <blocks>
  create <path> <blocks>
  rm <path>
  mv <dst> <src>
  cp <dst> <src>
  df`

func main() {
	if err := run(afero.NewOsFs(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(fs afero.Fs, args []string, out io.Writer) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	image, command, args := args[0], args[1], args[2:]

	var opts []atfs.Option
	if os.Getenv("ATFS_DEBUG") != "" {
		opts = append(opts, atfs.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	if command == "format" {
		return format(fs, image, args, out, opts)
	}

	blockSize := uint32(512)
	if s := os.Getenv("ATFS_BLOCK_SIZE"); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("ATFS_BLOCK_SIZE: %w", err)
		}
		blockSize = uint32(n)
	}

	dev, err := atfs.OpenImage(fs, image, blockSize)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer dev.Close()

	vol, err := atfs.Mount(dev, opts...)
	if err != nil {
		return fmt.Errorf("mounting image: %w", err)
	}

	switch command {
	case "ls":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return list(vol, path, out)
	case "tree":
		return vol.Walk("", func(path string, entry atfs.DirEntry) error {
			if path == "" {
				path = "<root>"
			}
			fmt.Fprintf(out, "%-4s %6d %6d %s\n", entry.Type, entry.Start, entry.Size, path)
			return nil
		})
	case "find":
		if len(args) < 1 {
			return errors.New(usage)
		}
		matches, err := vol.Glob(args[0])
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintln(out, m)
		}
		return nil
	case "mkdir", "create":
		if len(args) < 2 {
			return errors.New(usage)
		}
		size, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("size: %w", err)
		}
		typ := atfs.TypeFile
		if command == "mkdir" {
			typ = atfs.TypeDir
		}
		return vol.Create(args[0], typ, uint32(size))
	case "rm":
		if len(args) < 1 {
			return errors.New(usage)
		}
		return vol.Delete(args[0])
	case "mv", "cp":
		if len(args) < 2 {
			return errors.New(usage)
		}
		if command == "mv" {
			return vol.Move(args[0], args[1])
		}
		return vol.Copy(args[0], args[1])
	case "df":
		info, err := vol.Stat()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "revision %d, %d blocks of %d bytes\n", info.Revision, info.BlockCount, info.BlockSize)
		fmt.Fprintf(out, "root %d+%d, %d blocks free in %d extents\n", info.Root.Start, info.Root.Size, info.FreeBlocks, info.FreeExtents)
		return nil
	}

	return fmt.Errorf("unknown command %q\n%s", command, usage)
}

func format(fs afero.Fs, image string, args []string, out io.Writer, opts []atfs.Option) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	blocks, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("blocks: %w", err)
	}

	blockSize := uint64(512)
	if len(args) > 1 {
		if blockSize, err = strconv.ParseUint(args[1], 10, 32); err != nil {
			return fmt.Errorf("blocksize: %w", err)
		}
	}

	dev, err := atfs.CreateImage(fs, image, uint32(blockSize), uint32(blocks))
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	defer dev.Close()

	if _, err := atfs.Format(dev, opts...); err != nil {
		return fmt.Errorf("formatting image: %w", err)
	}

	fmt.Fprintf(out, "formatted %s: %d blocks of %d bytes\n", image, blocks, blockSize)
	return nil
}

func list(vol *atfs.Volume, path string, out io.Writer) error {
	dir, err := vol.OpenDir(path)
	if err != nil {
		return err
	}

	for {
		entry, err := dir.ReadNext()
		if err == atfs.ErrEndOfDirectory {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-4s %6d %6d %s\n", entry.Type, entry.Start, entry.Size, entry.Name)
	}
}
