// Command udpgen sends a fixed UDP payload at a steady rate, for exercising
// udpwatch against a known load.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"udpwatch/internal/capture"
	"udpwatch/internal/framegen"
	"udpwatch/internal/generator"
	"udpwatch/internal/logging"
)

func main() {
	dst := flag.String("dst", "192.168.1.123:8080", "Destination host:port (socket mode)")
	size := flag.Int("size", 12, "Payload size in bytes")
	fill := flag.Uint("byte", 0xAA, "Payload fill byte")
	rateHz := flag.Float64("rate", 10, "Datagrams per second (0 = unpaced)")
	count := flag.Int("count", 0, "Stop after this many datagrams (0 = until interrupted)")
	logEvery := flag.Int("log-every", 10, "Log progress every N datagrams")

	raw := flag.Bool("raw", false, "Inject complete Ethernet frames on -i instead of using a UDP socket")
	iface := flag.String("i", "", "Interface for -raw mode")
	backend := flag.String("backend", string(capture.BackendAFPacket), "Injection backend for -raw: afpacket or pcap")
	srcMAC := flag.String("src-mac", "", "Source MAC for -raw (default: interface MAC)")
	dstMAC := flag.String("dst-mac", "", "Destination MAC for -raw (default: resolved with ARP)")
	srcIP := flag.String("src-ip", "", "Source IPv4 for -raw (default: interface address)")
	srcPort := flag.Uint("src-port", 0x4554, "Source UDP port for -raw")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if _, err := logging.Setup(logging.Options{Level: *logLevel}); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	if *size < 0 || *fill > 0xFF {
		log.Fatalf("invalid payload: size=%d byte=%#x", *size, *fill)
	}

	cfg := generator.Config{
		Payload:  bytes.Repeat([]byte{byte(*fill)}, *size),
		Rate:     *rateHz,
		Count:    *count,
		LogEvery: *logEvery,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"dst":   *dst,
		"size":  *size,
		"rate":  *rateHz,
		"count": *count,
		"raw":   *raw,
	}).Info("starting generator")

	start := time.Now()
	var (
		sent int
		err  error
	)
	if *raw {
		sent, err = runRaw(ctx, *iface, capture.Backend(*backend), *dst, *srcMAC, *dstMAC, *srcIP, *srcPort, cfg)
	} else {
		sent, err = runSocket(ctx, *dst, cfg)
	}

	log.WithFields(log.Fields{
		"sent":    sent,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("generator stopped")
	if err != nil {
		log.Fatalf("Error sending: %v", err)
	}
}

func runSocket(ctx context.Context, dst string, cfg generator.Config) (int, error) {
	conn, err := net.Dial("udp", dst)
	if err != nil {
		return 0, fmt.Errorf("failed to dial %s: %w", dst, err)
	}
	defer conn.Close()
	return generator.Run(ctx, conn, cfg)
}

func runRaw(ctx context.Context, iface string, backend capture.Backend, dst, srcMAC, dstMAC, srcIP string, srcPort uint, cfg generator.Config) (int, error) {
	if iface == "" {
		return 0, fmt.Errorf("-raw needs -i")
	}

	tmpl := framegen.Defaults()
	host, portStr, err := net.SplitHostPort(dst)
	if err != nil {
		return 0, fmt.Errorf("invalid -dst %q: %w", dst, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid -dst port %q: %w", portStr, err)
	}
	tmpl.DstPort = uint16(port)
	if tmpl.DstIP = net.ParseIP(host).To4(); tmpl.DstIP == nil {
		return 0, fmt.Errorf("invalid -dst host %q: need an IPv4 address", host)
	}
	if srcPort > 0xFFFF {
		return 0, fmt.Errorf("invalid -src-port %d", srcPort)
	}
	tmpl.SrcPort = uint16(srcPort)

	// Source addresses default to the interface's own.
	ifaceMAC, ifaceIP, err := generator.InterfaceAddrs(iface)
	if err != nil {
		return 0, err
	}
	tmpl.SrcMAC, tmpl.SrcIP = ifaceMAC, ifaceIP
	if srcIP != "" {
		if tmpl.SrcIP = net.ParseIP(srcIP).To4(); tmpl.SrcIP == nil {
			return 0, fmt.Errorf("invalid -src-ip %q", srcIP)
		}
	}
	if srcMAC != "" {
		if tmpl.SrcMAC, err = net.ParseMAC(srcMAC); err != nil {
			return 0, fmt.Errorf("invalid -src-mac: %w", err)
		}
	}

	src, err := capture.Open(capture.Config{Interface: iface, Backend: backend, Promisc: new(bool)})
	if err != nil {
		return 0, err
	}
	defer src.Close()

	link, ok := src.(generator.Link)
	if !ok {
		return 0, fmt.Errorf("backend %s cannot inject frames", backend)
	}

	if dstMAC != "" {
		if tmpl.DstMAC, err = net.ParseMAC(dstMAC); err != nil {
			return 0, fmt.Errorf("invalid -dst-mac: %w", err)
		}
	} else {
		log.WithField("ip", tmpl.DstIP).Info("resolving destination MAC")
		arpCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		tmpl.DstMAC, err = generator.ResolveMAC(arpCtx, link, ifaceMAC, ifaceIP, tmpl.DstIP)
		cancel()
		if err != nil {
			return 0, err
		}
		log.WithField("mac", tmpl.DstMAC).Info("destination MAC resolved")
	}

	return generator.RunFrames(ctx, link, tmpl, cfg)
}
