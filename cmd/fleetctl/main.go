// Command fleetctl is the operator tool of the booking service. It issues
// console access tokens and evaluates booking schedules the way the console
// does.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fleetops/config"
	"fleetops/infras/jwt"
	"fleetops/infras/otel"
	"fleetops/internal/domains/booking/model"
	"fleetops/internal/domains/booking/schedule"
	"fleetops/shared/timezone"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage: fleetctl <token|countdown> [flags]")

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "token":
		return runToken(args[1:], out)
	case "countdown":
		return runCountdown(args[1:], out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func runToken(args []string, out io.Writer) error {
	var userID, name, role string

	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVar(&userID, "user", "", "user ID the token is issued to")
	flagSet.StringVar(&name, "name", "", "display name")
	flagSet.StringVar(&role, "role", "", "console role: admin, owner, surveyor or cargo_manager")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg := config.Get()

	token, err := jwt.New(cfg, otel.New(cfg)).GenerateAccessToken(userID, name, role)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Fprintln(out, token)

	return nil
}

func runCountdown(args []string, out io.Writer) error {
	var date, timeText, kind, zone, at string

	flagSet := pflag.NewFlagSet("countdown", pflag.ContinueOnError)
	flagSet.StringVar(&date, "date", "", "scheduled date, YYYY-MM-DD or an ISO-8601 date-time")
	flagSet.StringVar(&timeText, "time", "", "scheduled time, HH:MM or H:MM AM/PM")
	flagSet.StringVar(&kind, "kind", string(model.KindInspection), "booking kind: inspection or cargo")
	flagSet.StringVar(&zone, "timezone", "", "IANA zone used for dates without an offset (default APP_TIMEZONE)")
	flagSet.StringVar(&at, "at", "", "evaluate at this RFC 3339 instant instead of now")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	loc, err := location(zone)
	if err != nil {
		return err
	}

	now := time.Now()

	if at != "" {
		now, err = time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
	}

	resolver := schedule.NewResolver(loc)

	countdown := resolver.Countdown(schedule.CountdownInput{
		Date:  date,
		Time:  timeText,
		Event: model.Kind(kind).Event(),
	}, now)

	if instant, ok := resolver.ResolveLenient(date, timeText); ok {
		fmt.Fprintf(out, "instant:  %s\n", instant.Format(time.RFC3339))
	}

	fmt.Fprintf(out, "label:    %s\nurgency:  %s\n", countdown.Label, countdown.Urgency)

	return nil
}

func location(zone string) (*time.Location, error) {
	if zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}

		return loc, nil
	}

	if err := timezone.Init(config.Get()); err != nil {
		return nil, err
	}

	return timezone.GetLocation(), nil
}
