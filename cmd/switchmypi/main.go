// Command switchmypi prints the state of a switch wired between header pins
// 3 and 6 of a Raspberry Pi, updating a single console line every 50ms until
// interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/switchmypi/internal/gpio"
	"github.com/sweeney/switchmypi/internal/logic"
	"github.com/sweeney/switchmypi/internal/monitor"
	"github.com/sweeney/switchmypi/internal/mqtt"
	"github.com/sweeney/switchmypi/internal/status"
	"github.com/sweeney/switchmypi/internal/web"
)

var rootCmd = &cobra.Command{
	Use:   "switchmypi",
	Short: "switchmypi shows whether the switch on header pin 3 is open or closed",
	Long: `switchmypi polls header pin 3 (GPIO2, pulled up) every 50ms and prints
"----- Switch opened -----" or "+++++ Switch closed +++++" on a single line
until interrupted. Connect pin 3 to ground (pin 6) to close the switch.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCh, stop := notifyShutdown()
		defer stop()

		return run(opts, env{
			open:         gpio.Open,
			newPublisher: newRealPublisher,
			out:          os.Stdout,
			sig:          sigCh,
		})
	},
}

var opts config

func init() {
	rootCmd.Flags().StringVarP(&opts.Backend, "backend", "b", gpio.BackendCdev, "GPIO backend: cdev, rpio or periph")
	rootCmd.Flags().StringVarP(&opts.Chip, "chip", "c", gpio.DefaultChip, "GPIO chip (cdev backend only)")
	rootCmd.Flags().BoolVar(&opts.PrintState, "print-state", false, "Print the current state once and exit")
	rootCmd.Flags().StringVar(&opts.Broker, "broker", "", "MQTT broker address for switch events (empty to disable)")
	rootCmd.Flags().StringVar(&opts.HTTPAddr, "http", "", "HTTP status address (empty to disable)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// config holds the command line options. None of them change the pin or
// the poll interval.
type config struct {
	Backend    string
	Chip       string
	PrintState bool
	Broker     string
	HTTPAddr   string
}

// publisher is an MQTT publisher that can report its connection state.
type publisher interface {
	mqtt.Publisher
	mqtt.ConnectionStatus
}

func newRealPublisher(broker string) publisher {
	return mqtt.NewRealPublisher(broker)
}

// env carries the process dependencies of run so tests can replace them.
type env struct {
	open         func(backend, chip string) (gpio.Gateway, error)
	newPublisher func(broker string) publisher
	out          io.Writer
	sig          <-chan os.Signal
	interval     time.Duration // zero means monitor.PollInterval
	now          func() time.Time
}

// pollInterval is monitor.PollInterval unless a test overrides it.
func (e env) pollInterval() time.Duration {
	if e.interval == 0 {
		return monitor.PollInterval
	}
	return e.interval
}

func run(cfg config, e env) error {
	if e.now == nil {
		e.now = time.Now
	}

	gw, err := e.open(cfg.Backend, cfg.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := gw.Close(); err != nil {
			log.Printf("close gpio: %v", err)
		}
	}()

	// Print state mode
	if cfg.PrintState {
		m := monitor.New(gw, gpio.SwitchPin, e.out)
		defer m.Close()
		if err := m.Setup(); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		if _, err := m.Sample(); err != nil {
			return err
		}
		return nil
	}

	var pub publisher
	if cfg.Broker != "" {
		pub = e.newPublisher(cfg.Broker)
		defer pub.Close()
	}

	interval := e.pollInterval()
	tracker := status.NewTracker(e.now(), status.Config{
		Backend:  cfg.Backend,
		Chip:     chipFor(cfg),
		Pin:      gpio.SwitchPin.String(),
		PollMs:   interval.Milliseconds(),
		Broker:   cfg.Broker,
		HTTPAddr: cfg.HTTPAddr,
	})
	rep := &reporter{
		detector:  logic.NewDetector(),
		tracker:   tracker,
		publisher: pub,
	}

	m := monitor.New(gw, gpio.SwitchPin, e.out,
		monitor.WithInterval(interval),
		monitor.WithClock(e.now),
		monitor.WithObserver(rep.observe),
	)
	defer func() {
		if err := m.Close(); err != nil {
			log.Printf("release %s: %v", gpio.SwitchPin, err)
		}
	}()

	if err := m.Setup(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if pub != nil {
		rep.publishSystem(mqtt.SystemEvent{
			Timestamp: e.now(),
			Event:     "STARTUP",
			Pin:       gpio.SwitchPin.String(),
			Retained:  true,
		})
	}

	log.Printf("started: backend=%s pin=%s poll=%v", cfg.Backend, gpio.SwitchPin, interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reason atomic.Value
	go func() {
		select {
		case s := <-e.sig:
			reason.Store(signalName(s))
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Run(gctx)
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	err = g.Wait()

	if pub != nil {
		why, _ := reason.Load().(string)
		rep.publishSystem(mqtt.SystemEvent{
			Timestamp: e.now(),
			Event:     "SHUTDOWN",
			Reason:    why,
			Retained:  true,
		})
	}
	return err
}

// reporter turns samples into status updates and MQTT switch events.
// It runs on the poll loop goroutine.
type reporter struct {
	detector  *logic.Detector
	tracker   *status.Tracker
	publisher publisher // nil when MQTT is disabled
}

func (r *reporter) observe(open bool, at time.Time) {
	events := r.detector.Process(logic.Input{Open: open, Time: at})

	if r.publisher != nil {
		for _, event := range events {
			if err := r.publisher.Publish(event); err != nil {
				// Don't crash on publish failure
				log.Printf("publish error: %v", err)
			}
		}
		r.tracker.SetMQTTConnected(r.publisher.IsConnected())
	}

	r.tracker.Record(r.detector.CurrentState(), at, r.detector.Since(), r.detector.EventCountsSnapshot())
}

func (r *reporter) publishSystem(event mqtt.SystemEvent) {
	if err := r.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish %s event: %v", event.Event, err)
	}
}

func chipFor(cfg config) string {
	if cfg.Backend == gpio.BackendCdev || cfg.Backend == "" {
		return cfg.Chip
	}
	return ""
}

// shutdownSignals end the poll loop and run teardown. SIGHUP arrives when
// the controlling terminal closes.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// notifyShutdown routes shutdownSignals to the returned channel instead of
// the default handler, which would exit without releasing the pin.
func notifyShutdown() (<-chan os.Signal, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	return sigCh, func() { signal.Stop(sigCh) }
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGHUP:
		return "SIGHUP"
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
