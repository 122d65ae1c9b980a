package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/markerindex/internal/syntaxmarkers"
	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
	"github.com/Sumatoshi-tech/markerindex/pkg/persist"
	"github.com/Sumatoshi-tech/markerindex/pkg/snapshot"
)

const (
	snapshotCmdUse       = "snapshot"
	snapshotBufferFlag   = "buffer"
	snapshotCodecFlag    = "codec"
	snapshotDirFlag      = "dir"
	snapshotDefaultCodec = "json"
)

// ErrNoBufferID is returned when a snapshot subcommand needs --buffer and
// it was not supplied.
var ErrNoBufferID = errors.New("--buffer is required")

// ErrUnknownCodec is returned when --codec names a codec this CLI doesn't
// know how to build.
var ErrUnknownCodec = errors.New("unknown codec (want json, gob, or lz4)")

// NewSnapshotCommand creates the snapshot command group: save, load, info, clear.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   snapshotCmdUse,
		Short: "Save, load, inspect, and clear on-disk marker-index snapshots",
	}

	cmd.AddCommand(newSnapshotSaveCommand())
	cmd.AddCommand(newSnapshotLoadCommand())
	cmd.AddCommand(newSnapshotInfoCommand())
	cmd.AddCommand(newSnapshotClearCommand())

	return cmd
}

func newSnapshotSaveCommand() *cobra.Command {
	var (
		bufferID  string
		baseDir   string
		codecName string
	)

	cmd := &cobra.Command{
		Use:   "save <go-file>",
		Short: "Parse a Go file's declarations into an index and save it as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			path := args[0]

			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			decls, err := syntaxmarkers.Parse(cobraCmd.Context(), source)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			ix := markerindex.New()

			err = syntaxmarkers.Seed(ix, decls, 1)
			if err != nil {
				return fmt.Errorf("seed markers: %w", err)
			}

			bufID := bufferID
			if bufID == "" {
				bufID = path
			}

			codec, err := codecByName(codecName)
			if err != nil {
				return err
			}

			dir := baseDir
			if dir == "" {
				dir = snapshot.DefaultDir()
			}

			mgr := snapshot.NewManager(dir, snapshot.BufferHash(bufID))

			err = mgr.Save(ix, codec, bufID)
			if err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}

			fmt.Fprintf(os.Stdout, "saved %d markers for buffer %q to %s\n", len(ix.Dump()), bufID, mgr.SnapshotDir())

			return nil
		},
	}

	cmd.Flags().StringVar(&bufferID, snapshotBufferFlag, "", "buffer identifier (default: the input file's path)")
	cmd.Flags().StringVar(&baseDir, snapshotDirFlag, "", "snapshot base directory (default ~/.markerindex/snapshots)")
	cmd.Flags().StringVar(&codecName, snapshotCodecFlag, snapshotDefaultCodec, "encoding for the saved snapshot (json, gob, lz4)")

	return cmd
}

func newSnapshotLoadCommand() *cobra.Command {
	var (
		bufferID  string
		baseDir   string
		codecName string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Restore a buffer's saved snapshot and print its markers",
		RunE: func(_ *cobra.Command, _ []string) error {
			if bufferID == "" {
				return ErrNoBufferID
			}

			codec, err := codecByName(codecName)
			if err != nil {
				return err
			}

			dir := baseDir
			if dir == "" {
				dir = snapshot.DefaultDir()
			}

			mgr := snapshot.NewManager(dir, snapshot.BufferHash(bufferID))

			ix, err := mgr.Load(codec)
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}

			for id, r := range ix.Dump() {
				fmt.Fprintf(os.Stdout, "%d\t%s\n", id, r)
			}

			fmt.Fprintf(os.Stdout, "%d markers restored\n", len(ix.Dump()))

			return nil
		},
	}

	cmd.Flags().StringVar(&bufferID, snapshotBufferFlag, "", "buffer identifier to restore")
	cmd.Flags().StringVar(&baseDir, snapshotDirFlag, "", "snapshot base directory (default ~/.markerindex/snapshots)")
	cmd.Flags().StringVar(&codecName, snapshotCodecFlag, snapshotDefaultCodec, "encoding the snapshot was saved with (json, gob, lz4)")

	return cmd
}

func codecByName(name string) (persist.Codec, error) {
	switch name {
	case "", snapshotDefaultCodec:
		return persist.NewJSONCodec(), nil
	case "gob":
		return persist.NewGobCodec(), nil
	case "lz4":
		return persist.NewLZ4Codec(), nil
	default:
		return nil, ErrUnknownCodec
	}
}

func newSnapshotInfoCommand() *cobra.Command {
	var (
		bufferID string
		baseDir  string
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the metadata for a buffer's saved snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			if bufferID == "" {
				return ErrNoBufferID
			}

			dir := baseDir
			if dir == "" {
				dir = snapshot.DefaultDir()
			}

			mgr := snapshot.NewManager(dir, snapshot.BufferHash(bufferID))

			if !mgr.Exists() {
				fmt.Fprintf(os.Stdout, "no snapshot for buffer %q\n", bufferID)

				return nil
			}

			meta, err := mgr.LoadMetadata()
			if err != nil {
				return fmt.Errorf("load snapshot metadata: %w", err)
			}

			size, err := dirSize(mgr.SnapshotDir())
			if err != nil {
				return fmt.Errorf("measure snapshot size: %w", err)
			}

			fmt.Fprintf(os.Stdout, "buffer:  %s\ncreated: %s\nmarkers: %d\ncodec:   %s\non disk: %s\n",
				meta.BufferID, meta.CreatedAt, meta.MarkerCount, meta.CodecExt, humanize.Bytes(size))

			return nil
		},
	}

	cmd.Flags().StringVar(&bufferID, snapshotBufferFlag, "", "buffer identifier (file path or document URI)")
	cmd.Flags().StringVar(&baseDir, snapshotDirFlag, "", "snapshot base directory (default ~/.markerindex/snapshots)")

	return cmd
}

// dirSize sums the size of every regular file under dir, for reporting how
// much disk a snapshot occupies regardless of which codec wrote it.
func dirSize(dir string) (uint64, error) {
	var total uint64

	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		total += uint64(info.Size())

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", dir, err)
	}

	return total, nil
}

func newSnapshotClearCommand() *cobra.Command {
	var (
		bufferID string
		baseDir  string
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete a buffer's saved snapshot",
		RunE: func(_ *cobra.Command, _ []string) error {
			if bufferID == "" {
				return ErrNoBufferID
			}

			dir := baseDir
			if dir == "" {
				dir = snapshot.DefaultDir()
			}

			mgr := snapshot.NewManager(dir, snapshot.BufferHash(bufferID))

			err := mgr.Clear()
			if err != nil {
				return fmt.Errorf("clear snapshot: %w", err)
			}

			fmt.Fprintf(os.Stdout, "cleared snapshot for buffer %q\n", bufferID)

			return nil
		},
	}

	cmd.Flags().StringVar(&bufferID, snapshotBufferFlag, "", "buffer identifier (file path or document URI)")
	cmd.Flags().StringVar(&baseDir, snapshotDirFlag, "", "snapshot base directory (default ~/.markerindex/snapshots)")

	return cmd
}
