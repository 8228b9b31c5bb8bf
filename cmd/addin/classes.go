package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the registered classes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lib, err := newLibrary()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range lib.Classes() {
			fmt.Fprintln(out, c.Name())
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <class>",
	Short: "Show the method and property tables of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := newLibrary()
		if err != nil {
			return err
		}
		obj, err := lib.Create(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "class %s\n", obj.ClassName())
		if ms := methods(obj); len(ms) > 0 {
			fmt.Fprintln(out, "\nmethods:")
			for _, m := range ms {
				fmt.Fprintf(out, "  %2d  %s\n", m.index, m.signature())
			}
		}
		if ps := props(obj); len(ps) > 0 {
			fmt.Fprintln(out, "\nproperties:")
			for _, p := range ps {
				fmt.Fprintf(out, "  %2d  %s\n", p.index, p.signature())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classesCmd, describeCmd)
}
