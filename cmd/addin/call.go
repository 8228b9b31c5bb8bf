package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/native-addin/addin"
)

var callCmd = &cobra.Command{
	Use:   "call <class> <method> [args...]",
	Short: "Call a method on a fresh instance",
	Long: `call creates an instance of the class, calls the named method with the
given arguments and prints the result. Arguments are parsed by the declared
parameter type. Dates use RFC 3339. Blobs take the text as bytes, or decode it
when prefixed with "base64:".`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, obj, err := createObject(args[0])
		if err != nil {
			return err
		}
		idx := addin.FindMethodName(obj, args[1])
		if idx < 0 {
			return fmt.Errorf("%s has no method %q", obj.ClassName(), args[1])
		}

		log.Debug("calling method",
			zap.String("class", obj.ClassName()),
			zap.String("method", obj.MethodName(idx)),
			zap.Int("index", idx))

		res, err := invoke(obj, idx, args[2:], lib.Converter())
		if err != nil {
			return err
		}
		if obj.HasResult(idx) {
			fmt.Fprintln(cmd.OutOrStdout(), formatCell(res, lib.Converter()))
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <class> <property>",
	Short: "Read a property of a fresh instance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, obj, err := createObject(args[0])
		if err != nil {
			return err
		}
		idx := addin.FindPropName(obj, args[1])
		if idx < 0 {
			return fmt.Errorf("%s has no property %q", obj.ClassName(), args[1])
		}
		res, err := readProp(obj, idx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatCell(res, lib.Converter()))
		return nil
	},
}

func createObject(class string) (*addin.Library, addin.Object, error) {
	lib, err := newLibrary()
	if err != nil {
		return nil, nil, err
	}
	obj, err := lib.Create(class)
	if err != nil {
		return nil, nil, err
	}
	return lib, obj, nil
}

func init() {
	rootCmd.AddCommand(callCmd, getCmd)
}
