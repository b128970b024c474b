package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"

	"github.com/spf13/cobra"

	"jdisasm/internal/classfile"
)

var classMagic = binary.BigEndian.AppendUint32(nil, 0xcafebabe)

var findCmd = &cobra.Command{
	Use:   "find [dir]",
	Short: "List class files below a directory",
	Long: `Find files that start with the class file magic 0xCAFEBABE,
whatever their extension. With --names the class name is printed too.`,
	Example: `
# Find every class file below build/
jdisasm find build

# Only look at the top level directory
jdisasm find --recursive=false out
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")
		names, _ := cmd.Flags().GetBool("names")
		return runFindClasses(args[0], recursive, names)
	},
}

func init() {
	findCmd.Flags().BoolP("recursive", "r", true, "Descend into subdirectories")
	findCmd.Flags().Bool("names", false, "Print the class name after each path")
	rootCmd.AddCommand(findCmd)
}

func runFindClasses(dirPath string, recursive, names bool) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}

	var found []string
	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error accessing %s: %v\n", path, err)
			return nil
		}
		if info.IsDir() {
			if !recursive && path != dirPath {
				return pathpkg.SkipDir
			}
			return nil
		}
		if info.Size() < int64(len(classMagic)) {
			return nil
		}
		ok, err := hasClassMagic(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open %s: %v\n", path, err)
			return nil
		}
		if ok {
			found = append(found, path)
		}
		return nil
	}
	if err := pathpkg.Walk(dirPath, walkFn); err != nil {
		return fmt.Errorf("error walking directory: %v", err)
	}

	for _, path := range found {
		if !names {
			fmt.Println(path)
			continue
		}
		name := "?"
		if classes, err := classfile.LoadPath(path); err == nil && len(classes) == 1 {
			name = classes[0].Name
		}
		fmt.Printf("%s\t%s\n", path, name)
	}
	return nil
}

func hasClassMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, len(classMagic))
	if _, err := io.ReadFull(f, buf); err != nil {
		return false, nil
	}
	return bytes.Equal(buf, classMagic), nil
}
