// Command blockfsd mounts a block-filesystem image and drives it either
// interactively or from a script file, grounded in the teacher's plain
// flag-plus-log entrypoint idiom (cmd/goose-nfsd/main.go) rather than a
// cobra/viper CLI framework, since the teacher reaches for neither.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/laadim/blockfs/fsys"
	"github.com/laadim/blockfs/shell"
)

func main() {
	image := flag.String("image", "blockfs.img", "path to the filesystem image file")
	script := flag.String("script", "", "optional script file to run instead of an interactive session")
	flag.Parse()

	engine, err := fsys.Mount(*image)
	if err != nil {
		log.Fatalf("blockfsd: mount %s: %v", *image, err)
	}
	defer engine.Shutdown()

	log.Printf("blockfsd: mounted %s (formatted=%v)", *image, engine.Formatted())

	sh := shell.New(engine, os.Stdin, os.Stdout)
	if *script != "" {
		d := shell.NewDispatcher(engine)
		result := d.Dispatch("load " + *script)
		if result != "" {
			os.Stdout.WriteString(result + "\n")
		}
		return
	}
	sh.Run()
}
