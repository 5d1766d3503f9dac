package main

import (
	"fmt"
	"os"

	"github.com/aligator/goatfs"
	"github.com/spf13/afero"
)

// main is just a example main to play with ATFS.
// It formats an in-memory image, fills it through the afero adapter and walks it.
func main() {
	image := afero.NewMemMapFs()
	dev, err := atfs.CreateImage(image, "disk.img", 512, 256)
	if err != nil {
		fmt.Println("could not create the image", err)
		os.Exit(1)
	}
	defer dev.Close()

	vol, err := atfs.Format(dev)
	if err != nil {
		fmt.Println("could not format the image", err)
		os.Exit(1)
	}

	fs := afero.Fs(atfs.NewFs(vol, atfs.WithFileBlocks(2), atfs.WithDirBlocks(1)))

	if err := fs.MkdirAll("/home/tim", 0755); err != nil {
		fmt.Println("could not create the directories", err)
		os.Exit(1)
	}

	if err := afero.WriteFile(fs, "/home/tim/readme", []byte("Hello World"), 0644); err != nil {
		fmt.Println("could not write the file", err)
		os.Exit(1)
	}

	afero.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Println(err)
			return err
		}
		fmt.Println(path, info.IsDir(), info.Size())
		return nil
	})

	content, err := afero.ReadFile(fs, "/home/tim/readme")
	if err != nil {
		fmt.Println("could not read the file", err)
		os.Exit(1)
	}
	fmt.Printf("\n\nContent of /home/tim/readme:\n\n%s\n", content[:11])

	info, err := vol.Stat()
	if err != nil {
		fmt.Println("could not stat the volume", err)
		os.Exit(1)
	}
	fmt.Printf("%d of %d blocks free\n", info.FreeBlocks, info.BlockCount)
}
