// Command genmock generates solar request fixtures for the pipeline test
// suites, and the reports the pipeline is expected to produce for them. It
// runs the requests through the report builder with a fixed clock so the
// output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -n 200 -seed 7 \
//	  -requests-out data/mock/requests.jsonl \
//	  -reports-out data/mock/reports.json
//
// With -brokers the requests are also published to -topic.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/suntimes/internal/cities"
	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/couchcryptid/suntimes/internal/report"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
)

var baseDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Zones offered to coordinate requests. An empty zone leaves the report in UTC.
var zones = []string{"", "UTC", "America/New_York", "Europe/Berlin", "Asia/Kolkata", "Australia/Sydney"}

var ranges = []domain.RangeKind{domain.RangeDay, domain.RangeDay, domain.RangeWeek, domain.RangeMonth}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 100, "number of requests to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	requestsOut := flag.String("requests-out", "", "output path for request JSON lines")
	reportsOut := flag.String("reports-out", "", "output path for expected reports JSON (optional)")
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers to publish requests to (optional)")
	topic := flag.String("topic", "solar-requests", "topic to publish requests to")
	flag.Parse()

	if *requestsOut == "" || *n <= 0 {
		flag.Usage()
		return errors.New("missing required flags: -requests-out, -n")
	}

	table := cities.Default()
	reqs := generate(rand.New(rand.NewPCG(*seed, *seed)), table, *n)

	if err := writeLines(*requestsOut, reqs); err != nil {
		return fmt.Errorf("writing requests: %w", err)
	}
	log.Printf("wrote %d requests: %s", len(reqs), *requestsOut)

	if *reportsOut != "" {
		reports, err := build(table, reqs)
		if err != nil {
			return err
		}
		if err := writeJSON(*reportsOut, reports); err != nil {
			return fmt.Errorf("writing reports: %w", err)
		}
		log.Printf("wrote %d reports: %s", len(reports), *reportsOut)
		printStats(reports)
	}

	if *brokers != "" {
		if err := publish(strings.Split(*brokers, ","), *topic, reqs); err != nil {
			return fmt.Errorf("publishing: %w", err)
		}
		log.Printf("published %d requests to %s", len(reqs), *topic)
	}
	return nil
}

// generate returns n requests, alternating between named cities and
// random coordinates between the polar circles.
func generate(rng *rand.Rand, table *cities.Table, n int) []report.Request {
	all := table.All()
	reqs := make([]report.Request, 0, n)
	for i := range n {
		date := domain.DateOf(baseDate).AddDays(rng.IntN(366))
		req := report.Request{
			Date:  date.String(),
			Range: string(ranges[rng.IntN(len(ranges))]),
		}
		if i%2 == 0 {
			req.City = all[rng.IntN(len(all))].Name
		} else {
			lat := round4(rng.Float64()*132 - 66)
			lon := round4(rng.Float64()*360 - 180)
			req.Latitude, req.Longitude = &lat, &lon
			req.Name = fmt.Sprintf("point-%03d", i)
			req.TimeZone = zones[rng.IntN(len(zones))]
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func round4(v float64) float64 {
	return float64(int(v*1e4)) / 1e4
}

func build(table *cities.Table, reqs []report.Request) ([]report.Report, error) {
	// Fixed clock for reproducible GeneratedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	b := report.NewBuilder(table, nil, report.Settings{}, logger, metrics)

	out := make([]report.Report, 0, len(reqs))
	for i, req := range reqs {
		r, err := b.Build(context.Background(), req)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func writeLines(path string, reqs []report.Request) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func publish(brokers []string, topic string, reqs []report.Request) error {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		AllowAutoTopicCreation: true,
	}
	defer w.Close()

	msgs := make([]kafkago.Message, 0, len(reqs))
	for i, r := range reqs {
		value, err := json.Marshal(r)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafkago.Message{
			Key:   fmt.Appendf(nil, "req-%04d", i),
			Value: value,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return w.WriteMessages(ctx, msgs...)
}

func printStats(reports []report.Report) {
	kinds := map[string]int{}
	sources := map[string]int{}
	var days int
	for _, r := range reports {
		sources[r.ZoneSource]++
		for _, d := range r.Days {
			kinds[d.Kind.String()]++
			days++
		}
	}

	log.Printf("--- stats ---")
	log.Printf("reports: %d, days: %d", len(reports), days)
	for _, m := range []map[string]int{kinds, sources} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			log.Printf("  %-14s %d", k, m[k])
		}
	}
}
