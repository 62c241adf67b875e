// Command plyconv inspects PLY point clouds and converts them to PCD.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/seqsense/plyloader/config"
	"github.com/seqsense/plyloader/pcd"
	"github.com/seqsense/plyloader/ply"
	"github.com/seqsense/plyloader/stats"
)

var errUsage = errors.New("usage: plyconv [-config file] [-v] info <in.ply> | pcd <in.ply> <out.pcd>")

func main() {
	configPath := flag.String("config", "", "YAML config file")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if err := run(*configPath, *verbose, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, verbose bool, args []string) error {
	c := config.Default()
	if configPath != "" {
		var err error
		if c, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if verbose {
		c.Log.Level = "debug"
	}
	logger, err := c.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		return errUsage
	}
	switch args[0] {
	case "info":
		return info(logger, args[1])
	case "pcd":
		if len(args) < 3 {
			return errUsage
		}
		return convert(logger, c, args[1], args[2])
	}
	return errUsage
}

func load(logger *slog.Logger, path string) (*ply.PointCloud, error) {
	res := <-ply.LoadAsync(path, ply.WithLogger(logger))
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Cloud.Header() == nil {
		return nil, fmt.Errorf("%s: not a %s file", path, ply.Extension)
	}
	return res.Cloud, nil
}

func info(logger *slog.Logger, in string) error {
	pp, err := load(logger, in)
	if err != nil {
		return err
	}
	s, err := stats.Summarize(pp)
	if err != nil {
		return err
	}
	return s.Fprint(os.Stdout)
}

func convert(logger *slog.Logger, c *config.Config, in, out string) error {
	format, err := c.Export.PCDFormat()
	if err != nil {
		return err
	}
	pp, err := load(logger, in)
	if err != nil {
		return err
	}
	p, err := pcd.FromPLY(pp)
	if err != nil {
		return err
	}
	if c.Export.VoxelSize > 0 {
		n := p.Points
		if p, err = pcd.Downsample(p, c.Export.VoxelSize); err != nil {
			return err
		}
		logger.Info("downsampled point cloud", "from", n, "to", p.Points)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := pcd.Write(f, p, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote pcd", "path", out, "format", format.String(), "points", p.Points)
	return nil
}
