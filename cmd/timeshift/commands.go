package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/HerbHall/timeshift/internal/control"
)

func runStatus(args []string) error {
	fs, cf := newFlagSet("status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := cf.client()
	if err != nil {
		return err
	}
	ctx, cancel := cf.context()
	defer cancel()

	s, err := c.Status(ctx)
	if err != nil {
		return err
	}
	return printStatus(os.Stdout, cf.output, s)
}

func runShift(args []string) error {
	fs, cf := newFlagSet("shift")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one amount, e.g. 1h, or -- -3600000 for a negative shift")
	}
	c, err := cf.client()
	if err != nil {
		return err
	}
	ctx, cancel := cf.context()
	defer cancel()

	amount := fs.Arg(0)
	var s control.Status
	if ms, perr := strconv.ParseFloat(amount, 64); perr == nil {
		s, err = c.ShiftMillis(ctx, ms)
	} else if d, perr := time.ParseDuration(amount); perr == nil {
		s, err = c.Shift(ctx, d)
	} else {
		return fmt.Errorf("amount %q is neither milliseconds nor a duration", amount)
	}
	if err != nil {
		return err
	}
	return printStatus(os.Stdout, cf.output, s)
}

func runJump(args []string) error {
	fs, cf := newFlagSet("jump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one target, e.g. 2020-02-02T00:00:00Z or 1580601600000")
	}
	c, err := cf.client()
	if err != nil {
		return err
	}
	ctx, cancel := cf.context()
	defer cancel()

	var target any = fs.Arg(0)
	if ms, perr := strconv.ParseInt(fs.Arg(0), 10, 64); perr == nil {
		target = ms
	}
	s, err := c.Jump(ctx, target)
	if err != nil {
		return err
	}
	return printStatus(os.Stdout, cf.output, s)
}

func runReset(args []string) error {
	fs, cf := newFlagSet("reset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := cf.client()
	if err != nil {
		return err
	}
	ctx, cancel := cf.context()
	defer cancel()

	s, err := c.Reset(ctx)
	if err != nil {
		return err
	}
	return printStatus(os.Stdout, cf.output, s)
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	secret := fs.String("secret", os.Getenv("TIMESHIFT_SECRET"), "signing secret (daemon auth_secret)")
	subject := fs.String("subject", "timeshift-cli", "token subject")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := control.IssueToken([]byte(*secret), *subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
