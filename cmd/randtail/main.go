// Command randtail connects to the generator WebSocket, requests batches at
// a fixed interval and prints every batch in human-readable form.
//
// Usage:
//
//	randtail                                  # one int in [0, 100] per second
//	randtail -url ws://host:8100/stream       # custom endpoint
//	randtail -kind gaussian -params mean=5,stddev=2 -count 8
//	randtail -kind bytes -count 32 -hex        # also dump raw frames
//	randtail -json                            # request JSON format (pass-through print)
//	randtail -seed 42 -batches 10             # reproducible, stop after 10 batches
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/wire"
)

func main() {
	url := flag.String("url", "ws://localhost:8100/stream", "WebSocket endpoint")
	kind := flag.String("kind", "int", "Sample kind: int, float, gaussian, exponential, binomial, bool, bytes, shuffle")
	count := flag.Int("count", 1, "Values per batch")
	params := flag.String("params", "", "Extra parameters as key=value pairs, comma-separated")
	interval := flag.Duration("interval", time.Second, "Delay between requests")
	batches := flag.Int("batches", 0, "Stop after N batches (0 = run until interrupted)")
	seed := flag.Int64("seed", 0, "Reseed the session engine (0 = keep)")
	useJSON := flag.Bool("json", false, "Request JSON format instead of binary")
	showHex := flag.Bool("hex", false, "Print raw hex dump alongside decoded output")
	flag.Parse()

	draw := map[string]any{"action": "draw", "kind": *kind, "count": *count}
	if *params != "" {
		for _, kv := range strings.Split(*params, ",") {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				logger.Fatal(fmt.Errorf("parameter %q is not key=value", kv), "bad -params")
			}
			draw[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	// Connect
	logger.Info("connecting", "url", *url)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatal(err, "dial failed")
	}
	defer conn.Close()
	logger.Info("connected")

	// Set format
	format := "binary"
	if *useJSON {
		format = "json"
	}
	sendControl(conn, map[string]any{"action": "format", "format": format})
	if *seed != 0 {
		sendControl(conn, map[string]any{"action": "seed", "seed": *seed})
	}

	// Request loop
	go func() {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for sent := 0; *batches == 0 || sent < *batches; sent++ {
			sendControl(conn, draw)
			<-ticker.C
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		closeConn(conn)
		os.Exit(0)
	}()

	// Read loop
	for received := 0; *batches == 0 || received < *batches; received++ {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			logger.Fatal(err, "read failed")
		}

		if msgType == websocket.TextMessage || *useJSON {
			// JSON pass-through
			fmt.Println(string(data))
			continue
		}

		if *showHex {
			printHex(data)
		}
		for len(data) > 0 {
			b, n, err := wire.DecodeBinary(data)
			if err != nil {
				logger.Warn("undecodable frame", "error", err, "bytes", len(data))
				break
			}
			printBatch(b)
			data = data[n:]
		}
	}
	closeConn(conn)
}

func sendControl(conn *websocket.Conn, msg map[string]any) {
	data, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logger.Fatal(err, "send control failed")
	}
}

func closeConn(conn *websocket.Conn) {
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(200 * time.Millisecond)
}

func formatTimestamp(nanos int64) string {
	d := time.Duration(nanos)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	us := (nanos / 1000) % 1000000
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, us)
}

func printBatch(b *wire.Batch) {
	prefix := fmt.Sprintf("[%s] #%-6d %-11s", formatTimestamp(b.Timestamp), b.Seq, b.Kind)
	switch b.Kind {
	case wire.KindInt:
		fmt.Printf("%s %v\n", prefix, b.Ints)
	case wire.KindBool:
		bools := make([]bool, len(b.Ints))
		for i, v := range b.Ints {
			bools[i] = v != 0
		}
		fmt.Printf("%s %v\n", prefix, bools)
	case wire.KindFloat, wire.KindGaussian, wire.KindExponential:
		parts := make([]string, len(b.Floats))
		for i, f := range b.Floats {
			parts[i] = fmt.Sprintf("%.6f", f)
		}
		fmt.Printf("%s [%s]\n", prefix, strings.Join(parts, " "))
	case wire.KindBytes:
		fmt.Printf("%s %s\n", prefix, hex.EncodeToString(b.Bytes))
	case wire.KindError:
		fmt.Printf("%s %s\n", prefix, b.Err)
	}
}

func printHex(data []byte) {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Printf("  %04x  % x\n", i, data[i:end])
	}
}
