package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"udpwatch/internal/analysis"
	"udpwatch/internal/capture"
	"udpwatch/internal/decode"
	"udpwatch/internal/logging"
	"udpwatch/internal/reporting"
	"udpwatch/internal/tui"
)

func main() {
	interfaceName := flag.String("i", "", "Network interface to capture from (e.g., eth0, enp1s0f0)")
	pcapFile := flag.String("r", "", "Replay frames from a pcap file instead of a live interface")
	port := flag.Uint("port", 32775, "UDP destination port to measure")
	backend := flag.String("backend", string(capture.BackendAFPacket), "Live capture backend: afpacket or pcap")
	useBPF := flag.Bool("bpf", true, "Install a kernel 'udp dst port' filter (pcap backend)")
	promisc := flag.Bool("promisc", true, "Put the interface in promiscuous mode")
	snapLen := flag.Int("snaplen", 65536, "Bytes captured per frame (pcap backend)")
	window := flag.Duration("window", analysis.DefaultWindow, "Throughput measurement window")
	quiet := flag.Bool("quiet", false, "Only print throughput lines, no per-frame trace")
	useTUI := flag.Bool("tui", false, "Show a live dashboard instead of the text trace")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file (rotated)")
	flag.Parse()

	if (*interfaceName == "") == (*pcapFile == "") {
		fmt.Println("Please provide either an interface name with -i or a capture file with -r")
		fmt.Println("Example: sudo ./udpwatch -i enp1s0f0 -port 32775")
		os.Exit(2)
	}
	if *port == 0 || *port > 65535 {
		fmt.Printf("Invalid -port %d: must be 1-65535\n", *port)
		os.Exit(2)
	}
	dstPort := uint16(*port)

	if _, err := logging.Setup(logging.Options{Level: *logLevel, File: *logFile, Quiet: *useTUI}); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// Open the capture source; failing here is fatal.
	var (
		src       capture.Source
		sourceTag string
		err       error
	)
	if *pcapFile != "" {
		src, err = capture.OpenFile(*pcapFile)
		sourceTag = *pcapFile
	} else {
		cfg := capture.Config{
			Interface: *interfaceName,
			Backend:   capture.Backend(*backend),
			SnapLen:   *snapLen,
			Promisc:   promisc,
		}
		if *useBPF {
			cfg.Port = dstPort
		}
		src, err = capture.Open(cfg)
		sourceTag = *interfaceName
	}
	if err != nil {
		if *useTUI {
			fmt.Fprintf(os.Stderr, "Error starting capture: %v\n", err)
			os.Exit(1)
		}
		log.Fatalf("Error starting capture: %v", err)
	}
	defer src.Close()

	log.WithFields(log.Fields{
		"source":  sourceTag,
		"port":    dstPort,
		"backend": *backend,
		"window":  *window,
	}).Info("starting capture")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := analysis.NewAggregator(*window, time.Now())
	drops := analysis.NewDropCounter()
	loop := &capture.Loop{
		Source:         src,
		Decoder:        decode.NewDecoder(dstPort),
		Aggregator:     agg,
		Drops:          drops,
		UseCaptureTime: *pcapFile != "",
	}

	if *useTUI {
		err = runTUI(ctx, stop, loop, sourceTag, dstPort)
	} else {
		err = runConsole(ctx, loop, sourceTag, dstPort, !*quiet)
	}
	if err != nil {
		reportStopped(os.Stderr, *useTUI && *logFile == "", err)
		src.Close()
		os.Exit(1)
	}
}

// reportStopped logs the error that ended the run. When logs are discarded
// (dashboard without -log-file) it is written to w instead.
func reportStopped(w io.Writer, logsDiscarded bool, err error) {
	if logsDiscarded {
		fmt.Fprintf(w, "Capture stopped: %v\n", err)
		return
	}
	log.WithError(err).Error("capture stopped")
}

func runConsole(ctx context.Context, loop *capture.Loop, source string, port uint16, verbose bool) error {
	console := reporting.NewConsole(os.Stdout, verbose)
	console.Banner(source, port)
	loop.Sink = console

	err := loop.Run(ctx)
	console.Totals(loop.Aggregator.Totals(), loop.Drops.Snapshot())
	return err
}

func runTUI(ctx context.Context, stop context.CancelFunc, loop *capture.Loop, source string, port uint16) error {
	feed := tui.NewFeed(loop.Aggregator, loop.Drops)
	loop.Sink = feed

	model := tui.NewMonitorModel(feed, source, port)
	p := tea.NewProgram(model, tea.WithAltScreen())

	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		loopErr <- err
		p.Send(tui.DoneMsg{Err: err})
	}()

	_, uiErr := p.Run()

	// The dashboard is gone; stop the capture and wait for the loop to return.
	stop()
	err := <-loopErr
	if uiErr != nil {
		err = errors.Join(fmt.Errorf("running dashboard: %w", uiErr), err)
	}
	return err
}
