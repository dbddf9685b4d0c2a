package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/eduassist/internal/config"
	"github.com/csheth/eduassist/internal/lessons"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons saved from the form with ctrl+s",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		saved, err := lessons.Load(cfg.LessonsPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(saved)
		}
		if len(saved) == 0 {
			fmt.Fprintf(out, "No lessons saved in %s\n", cfg.LessonsPath)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SAVED\tSTYLE\tTOPIC\tIMAGE")
		for _, lesson := range saved {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				lesson.SavedAt.Local().Format("2006-01-02 15:04"),
				lesson.LearningStyle,
				lesson.Topic,
				lesson.ImageURL,
			)
		}
		return tw.Flush()
	},
}

func init() {
	lessonsCmd.Flags().Bool("json", false, "output lessons as JSON")
	rootCmd.AddCommand(lessonsCmd)
}
