package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	cp "github.com/otiai10/copy"
)

// StaticOutputDir is where registered static sources land inside the output.
const StaticOutputDir = "_static"

// copyProjectStatic copies the contents of the project's static directory
// into outputDir. A missing directory is skipped.
func copyProjectStatic(staticDir, outputDir string) error {
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		log.Debug("Static assets directory not found, skipping copy", "dir", staticDir)
		return nil
	}
	log.Info("Copying static assets", "from", staticDir, "to", outputDir)
	opts := cp.Options{
		PreserveTimes: false,
		PreserveOwner: false,
		OnSymlink: func(src string) cp.SymlinkAction {
			return cp.Deep
		},
	}
	if err := cp.Copy(staticDir, outputDir, opts); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}
	return nil
}

// copyStaticSources copies every registered static source into
// outputDir/_static. Embedded files are read-only, so owner write is added.
func copyStaticSources(sources []StaticSource, outputDir string) error {
	dst := filepath.Join(outputDir, StaticOutputDir)
	for _, src := range sources {
		opts := cp.Options{
			FS:                src.FS,
			PermissionControl: cp.AddPermission(0o200),
		}
		if err := cp.Copy(src.Root, dst, opts); err != nil {
			return fmt.Errorf("failed to copy static source %q: %w", src.Root, err)
		}
		log.Debug("Copied static source", "root", src.Root, "to", dst)
	}
	return nil
}
