package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Rrisinglight/isabella/internal/app"
	"github.com/Rrisinglight/isabella/internal/chart"
	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/geo"
	"github.com/Rrisinglight/isabella/internal/stream"
	"github.com/Rrisinglight/isabella/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagMapServer string
	flagStream    string
	flagRange     float64
	flagLat       float64
	flagLng       float64
	flagDemo      bool
	flagChartOut  string
	flagLogFile   string
	flagVerbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "isabella",
		Short: "Terminal dashboard for a directional antenna tracker",
		Long: `Isabella is a terminal control panel for a servo-driven antenna tracker.
It polls the tracker's HTTP API for telemetry, renders the coverage sector
on an ASCII map, drives scans and calibration, tunes the video receiver,
and can pull the on-board camera stream over WHEP.

Use --demo to run against a built-in simulated tracker.`,
		RunE: run,
	}

	rootCmd.Flags().StringVar(&flagServer, "server", "http://localhost:5000", "Tracker API base URL")
	rootCmd.Flags().StringVar(&flagMapServer, "map-server", "", "Base-state API URL if served separately (defaults to --server)")
	rootCmd.Flags().StringVar(&flagStream, "stream", config.DefaultStream, "WHEP stream name (empty disables video)")
	rootCmd.Flags().Float64Var(&flagRange, "range", config.DefaultRangeKm, "Coverage ring radius in km")
	rootCmd.Flags().Float64Var(&flagLat, "lat", config.DefaultLat, "Initial map latitude before a base point is set")
	rootCmd.Flags().Float64Var(&flagLng, "lng", config.DefaultLng, "Initial map longitude before a base point is set")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run against a built-in simulated tracker (no hardware)")
	rootCmd.Flags().StringVar(&flagChartOut, "chart-out", "scan.html", "HTML file for the scan chart (empty disables)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Debug-level logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log, closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	server := flagServer
	var demo *tracker.DemoServer
	if flagDemo {
		demo = tracker.NewDemoServer()
		url, err := demo.Start()
		if err != nil {
			return fmt.Errorf("demo tracker: %w", err)
		}
		defer demo.Stop()
		server = url
		log.WithField("url", url).Info("demo tracker started")
	}

	trackerClient := tracker.NewClient(server, log)
	stateClient := trackerClient
	if flagMapServer != "" && !flagDemo {
		stateClient = tracker.NewClient(flagMapServer, log)
	}
	dispatcher := tracker.NewDispatcher(trackerClient, stateClient, log)

	var negotiator *stream.Negotiator
	if flagStream != "" && !flagDemo {
		endpoint := strings.TrimSuffix(server, "/") + "/" + flagStream + "/whep"
		negotiator = stream.NewNegotiator(endpoint, log)
	}

	var sink chart.Sink
	if flagChartOut != "" {
		sink = chart.NewHTMLFile(flagChartOut, "Angular RF Scan")
	}

	model := app.New(app.Options{
		Server:     server,
		Dispatcher: dispatcher,
		Status:     tracker.NewStatusPoller(trackerClient, log),
		State:      tracker.NewStatePoller(dispatcher, log),
		Scan:       tracker.NewScanCollector(trackerClient, log),
		Calibrate:  tracker.NewCalibrationWaiter(trackerClient, log),
		Negotiator: negotiator,
		ChartSink:  sink,
		RangeKm:    flagRange,
		MapAnchor:  geo.Point{Lat: flagLat, Lng: flagLng},
		Log:        log,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start pollers with reference to the tea program
	if err := model.StartPollers(p); err != nil {
		return err
	}

	_, err = p.Run()
	return err
}

func setupLogging() (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	closeLog := func() {}

	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		closeLog = func() { f.Close() }
	}
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, closeLog, nil
}
