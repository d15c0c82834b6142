package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/scorer"
	"github.com/huangsam/douremember/schema"
	"github.com/spf13/cobra"
)

// cancelCommand abandons the running session when typed as a description.
const cancelCommand = ":cancelar"

// errSessionInputClosed is returned when input ends before the last image.
var errSessionInputClosed = errors.New("session input closed before the last image")

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "The patient's daily picture description test.",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start today's test session for the patient given by --user.",
	Long: `Show a random sample of the care group's images one at a time and read a
description for each. After the last image every description is scored in one
request and a single report is saved. Type :cancelar to abandon the session.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		store, err := dataStore()
		if err != nil {
			return err
		}
		loc := cfg.Location
		ctrl := core.NewSessionController(store, scorer.NewClientFromConfig(cfg),
			core.WithSampleSize(cfg.SampleSize),
			core.WithDayGuard(cfg.DayGuard),
			core.WithClock(func() time.Time { return time.Now().In(loc) }),
		)
		report, err := runSessionLoop(rootCtx, ctrl, cfg.UserID, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		if report != nil {
			fmt.Fprintf(os.Stderr, "💾 Saved report %s\n", report.ID)
		}
		return nil
	},
}

// runSessionLoop drives one session over a line-oriented reader. It returns the
// saved report, or nil when the session was blocked or cancelled.
func runSessionLoop(ctx context.Context, ctrl *core.SessionController, patientID string, in io.Reader, out io.Writer) (*schema.Report, error) {
	session, err := ctrl.Start(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if session.State == schema.SessionBlocked {
		fmt.Fprintln(out, session.Notice)
		return nil, nil
	}

	scanner := bufio.NewScanner(in)
	for session.State == schema.SessionInProgress {
		img, _ := session.Current()
		fmt.Fprintf(out, "\nImagen %d de %d\n%s\n", session.Position()+1, session.Total(), img.URL)
		fmt.Fprint(out, "Describe lo que ves: ")

		if !scanner.Scan() {
			_ = session.Cancel()
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read description: %w", err)
			}
			return nil, errSessionInputClosed
		}
		text := strings.TrimSpace(scanner.Text())
		if text == cancelCommand {
			_ = session.Cancel()
			fmt.Fprintln(out, "Sesión cancelada.")
			return nil, nil
		}
		if err := session.SetDescription(text); err != nil {
			return nil, err
		}
		if err := session.Next(); err != nil {
			if errors.Is(err, core.ErrEmptyDescription) {
				fmt.Fprintln(out, "Escribe una descripción antes de continuar.")
				continue
			}
			return nil, err
		}
	}

	fmt.Fprintln(out, "\nEvaluando tus descripciones...")
	report, err := ctrl.Finish(ctx, session)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "¡Sesión completada! Gracias.")
	return report, nil
}
