// Command lumina-rtc reads or sets the appliance's DS3231 real-time clock.
//
// Usage:
//
//	lumina-rtc [flags] read
//	lumina-rtc [flags] set YY-MM-DD-hh-mm-ss
//	lumina-rtc [flags] set -now
//
// Flags:
//
//	-config string   Configuration file path (bus and address)
//	-bus string      I2C bus name (overrides config)
//	-address uint    I2C address (overrides config)
//
// Examples:
//
//	# Show the clock
//	lumina-rtc read
//
//	# Set the clock to 2024-02-29 13:37:00
//	lumina-rtc set 24-02-29-13-37-00
//
//	# Copy the host clock into the chip
//	lumina-rtc set -now
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/timeheart/lumina/pkg/config"
	"github.com/timeheart/lumina/pkg/rtc"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

const usage = `lumina-rtc - DS3231 clock tool

Usage:
  lumina-rtc [flags] read
  lumina-rtc [flags] set YY-MM-DD-hh-mm-ss
  lumina-rtc [flags] set -now

Flags:
`

// Clock is the part of the DS3231 the tool needs.
type Clock interface {
	rtc.TimeSource
	Set(ctx context.Context, s timeinfo.Sample) error
}

var errUsage = errors.New("usage")

// busRetries is how often a failed bus transaction is repeated.
const busRetries = 2

// busBackoff spaces bus retries.
var busBackoff = 20 * time.Millisecond

// withRetry runs fn, repeating it on failure.
func withRetry(ctx context.Context, fn func(context.Context) error) error {
	b := retry.WithMaxRetries(busRetries, retry.NewConstant(busBackoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

var (
	configFile string
	busName    string
	address    uint
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path (bus and address)")
	flag.StringVar(&busName, "bus", "", "I2C bus name (overrides config)")
	flag.UintVar(&address, "address", 0, "I2C address (overrides config)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		cfg = loaded
	}
	if busName != "" {
		cfg.RTC.Bus = busName
	}
	if address != 0 {
		cfg.RTC.Address = uint16(address)
	}

	if _, err := host.Init(); err != nil {
		log.Fatalf("Failed to init host drivers: %v", err)
	}
	bus, err := rtc.OpenBus(cfg.RTC.Bus, physic.Frequency(cfg.RTC.SpeedKHz)*physic.KiloHertz)
	if err != nil {
		log.Fatalf("Failed to open bus: %v", err)
	}
	defer bus.Close()

	dev := rtc.NewDS3231(bus, cfg.RTC.Address)
	ctx := context.Background()

	if err := run(ctx, dev, flag.Args(), time.Now, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		bus.Close()
		log.Fatalf("Error: %v", err)
	}
}

// run executes one subcommand against clock.
func run(ctx context.Context, clock Clock, args []string, now func() time.Time, w io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "read":
		var s timeinfo.Sample
		err := withRetry(ctx, func(ctx context.Context) error {
			var err error
			s, err = clock.Read(ctx)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
		return nil

	case "set":
		fs := flag.NewFlagSet("set", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		useNow := fs.Bool("now", false, "Use the host clock")
		if err := fs.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}

		var s timeinfo.Sample
		switch {
		case *useNow && fs.NArg() == 0:
			s = rtc.FromTime(now())
		case !*useNow && fs.NArg() == 1:
			parsed, err := timeinfo.Parse(fs.Arg(0))
			if err != nil {
				return err
			}
			s = parsed
		default:
			return errUsage
		}

		err := withRetry(ctx, func(ctx context.Context) error {
			return clock.Set(ctx, s)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Clock set to %s\n", s)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}
