package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/chronos-cli/chronos/pkg/store"
	"github.com/chronos-cli/chronos/pkg/timeparse"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newListCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list [type]",
		Short: "List item records, optionally of a single type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}

			var items []*store.Item
			if len(args) == 1 {
				items, err = s.List(args[0])
			} else {
				items, err = s.ListAll()
			}
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No items found.")
				return nil
			}

			sort.Slice(items, func(i, j int) bool {
				if items[i].Type != items[j].Type {
					return items[i].Type < items[j].Type
				}
				return items[i].Name < items[j].Name
			})
			for _, it := range items {
				line := fmt.Sprintf("%-12s %s", it.Type, it.Name)
				if mins := timeparse.Minutes(it.Duration); mins > 0 {
					line += "  (" + timeparse.FormatMinutes(mins) + ")"
				}
				if it.CurrentStreak > 0 {
					line += fmt.Sprintf("  streak %d", it.CurrentStreak)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newShowCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show <type> <name>",
		Short: "Print an item record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}
			it, err := s.Read(args[0], args[1])
			if err != nil {
				return err
			}
			if it == nil {
				return fmt.Errorf("no %s named %q", args[0], args[1])
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(it)
		},
	}
}

func newStatusCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status [indicator] [value]",
		Short: "Show or set the current status context",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return fatal(err)
			}

			if len(args) == 2 {
				if err := s.SetStatus(args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("%s → %s\n", args[0], args[1])
				return nil
			}

			settings, err := s.LoadSettings()
			if err != nil {
				return err
			}
			ctx, err := s.LoadStatus(settings)
			if err != nil {
				return err
			}
			if len(ctx) == 0 {
				fmt.Println("No status set.")
				return nil
			}

			indicators := make([]string, 0, len(ctx))
			for k := range ctx {
				indicators = append(indicators, k)
			}
			sort.Strings(indicators)
			for _, k := range indicators {
				if len(args) == 1 && k != args[0] {
					continue
				}
				fmt.Printf("%s: %s\n", k, ctx[k])
			}
			return nil
		},
	}
}
