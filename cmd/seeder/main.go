// Command seeder imports the fixture data into MongoDB or deletes every
// bootcamp and course.
//
//	seeder -i [--dir _data]
//	seeder -d
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devcamper/devcamper/backend/go-services/internal/config"
	"github.com/devcamper/devcamper/backend/go-services/internal/database"
	"github.com/devcamper/devcamper/backend/go-services/internal/geocoder"
	"github.com/devcamper/devcamper/backend/go-services/internal/seed"
	"github.com/devcamper/devcamper/backend/go-services/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		logger.Errorf("seeder: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seeder",
		Usage: "import or destroy DevCamper fixture data",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "import", Aliases: []string{"i"}, Usage: "insert the fixture files"},
			&cli.BoolFlag{Name: "destroy", Aliases: []string{"d"}, Usage: "delete every bootcamp and course"},
			&cli.StringFlag{Name: "dir", Value: "_data", Usage: "directory holding bootcamps.json and courses.json"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	doImport, doDestroy := c.Bool("import"), c.Bool("destroy")
	if doImport == doDestroy {
		return errors.New("pass exactly one of -i (import) or -d (destroy)")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	if cfg.MongoDB.URI == "" {
		return errors.New("MONGODB_URI is not set; the seeder only writes to MongoDB")
	}

	stores, err := database.OpenStores(c.Context, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	s := &seed.Seeder{Bootcamps: stores.Bootcamps, Courses: stores.Courses}
	if doDestroy {
		_, err = s.Destroy(c.Context)
		return err
	}
	g, err := geocoder.New(cfg.Geocoder.Provider, cfg.Geocoder.APIKey)
	if err != nil {
		return err
	}
	if g != nil {
		s.Geocoder = g
	}
	_, err = s.Import(c.Context, c.String("dir"))
	return err
}
