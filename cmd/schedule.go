package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/schedule"
	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/infra/logger"
	"github.com/kilianp07/castplan/infra/source"
)

const defaultServer = "http://localhost:8080"

type scheduleOptions struct {
	server  string
	date    string
	output  string
	timeout time.Duration
	verbose bool
}

func init() {
	rootCmd.AddCommand(newScheduleCmd())
}

func newScheduleCmd() *cobra.Command {
	opts := &scheduleOptions{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect and edit the schedule of a running castplan server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			return logger.Configure(level)
		},
	}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.server, "server", defaultServer, "castplan API base URL")
	f.StringVar(&opts.date, "date", "", "schedule day as YYYY-MM-DD (today when empty)")
	f.StringVarP(&opts.output, "output", "o", string(formatTable), "output format: table or json")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(newShowCmd(opts), newSetCmd(opts), newSaveCmd(opts))
	return cmd
}

func newShowCmd(opts *scheduleOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the schedule of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, sess.Snapshot())
		},
	}
}

func newSetCmd(opts *scheduleOptions) *cobra.Command {
	var program, field, value string
	var save bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one field of a program's assignment",
		Long: "Change one field of a program's assignment. Fields are casterId, forecasterId\n" +
			"and hasCrosstalk. An empty value clears a caster or forecaster.\n" +
			"Without --save the edited schedule is only printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := schedule.ParseEdit(program, field, value)
			if err != nil {
				return err
			}
			sess, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			sess.Apply(e)
			if save {
				if err := sess.Save(cmd.Context()); err != nil {
					return fmt.Errorf("save: %w", err)
				}
			}
			return render(cmd.OutOrStdout(), opts.output, sess.Snapshot())
		},
	}
	cmd.Flags().StringVar(&program, "program", "", "program id")
	cmd.Flags().StringVar(&field, "field", "", "casterId, forecasterId or hasCrosstalk")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	cmd.Flags().BoolVar(&save, "save", false, "submit the edited schedule")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func newSaveCmd(opts *scheduleOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Replace a day's schedule with records read from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := opts.day()
			if err != nil {
				return err
			}
			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return err
				}
				defer fh.Close()
				in = fh
			}
			var records []model.ScheduleRecord
			if err := json.NewDecoder(in).Decode(&records); err != nil {
				return fmt.Errorf("decode records: %w", err)
			}
			if records == nil {
				records = []model.ScheduleRecord{}
			}
			if err := schedule.Validate(records); err != nil {
				return err
			}
			src, err := opts.source()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			if err := src.SaveSchedule(ctx, day, records); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %d records for %s\n", len(records), day)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON array of schedule records, - for stdin")
	return cmd
}

func (o *scheduleOptions) day() (model.Date, error) {
	if o.date == "" {
		return model.Today(), nil
	}
	return model.ParseDate(o.date)
}

func (o *scheduleOptions) source() (*source.HTTPSource, error) {
	return source.NewHTTPSource(source.HTTPConfig{BaseURL: o.server, Timeout: o.timeout})
}

// open loads the catalogs and the schedule of the selected day from the server.
func (o *scheduleOptions) open(ctx context.Context) (*session.Session, error) {
	day, err := o.day()
	if err != nil {
		return nil, err
	}
	src, err := o.source()
	if err != nil {
		return nil, err
	}
	sess := session.New(src, day, session.WithLogger(logger.New("cli")))
	if ctx == nil {
		ctx = context.Background()
	}
	if err := sess.Start(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}
