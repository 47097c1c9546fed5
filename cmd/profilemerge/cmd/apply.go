package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kevinwang15/profilestate"
)

var exampleForApply = `
increment counters in a JSON profile:
  profilemerge apply --op increment --target profile.json --source delta.json

delete keys from a YAML profile and show what changed:
  profilemerge apply --op delete --target profile.yaml --source delta.yaml --diff --changes

write the result to a file and print the RFC 6902 patch:
  profilemerge apply --op update -t profile.json -s delta.json -o out.json --patch
`

func NewApplyCmd(v *viper.Viper) *cobra.Command {
	applyCmd := &cobra.Command{
		Use:     "apply",
		Short:   "Apply a source delta document onto a target document",
		Args:    cobra.NoArgs,
		Example: exampleForApply,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.OutOrStdout(), v)
		},
	}

	applyCmd.Flags().String("op", "update", "operation: update, increment, decrement, delete, array_add, array_remove or get")
	applyCmd.Flags().StringP("target", "t", "", "target document file")
	applyCmd.Flags().StringP("source", "s", "", "source delta document file")
	applyCmd.Flags().StringP("format", "f", "", "document format, json or yaml (default: from file extension)")
	applyCmd.Flags().StringP("output", "o", "", "write the resulting document here instead of stdout")
	applyCmd.Flags().Int("indent", 0, "output indent (default: detected for YAML, 2 for JSON)")
	applyCmd.Flags().Int("max-depth", profilestate.DefaultMaxDepth, "reject source documents nested deeper than this, 0 disables")
	applyCmd.Flags().Bool("changes", false, "print the change set as JSON")
	applyCmd.Flags().Bool("patch", false, "print the change set as an RFC 6902 JSON Patch")
	applyCmd.Flags().Bool("diff", false, "print a unified diff of the document before and after")
	return applyCmd
}

func runApply(out io.Writer, v *viper.Viper) error {
	op, err := profilestate.ParseOperation(v.GetString("op"))
	if err != nil {
		return err
	}
	targetPath, sourcePath := v.GetString("target"), v.GetString("source")
	if targetPath == "" || sourcePath == "" {
		return errors.New("both --target and --source are required")
	}

	targetFormat := profilestate.FormatFromPath(targetPath)
	sourceFormat := profilestate.FormatFromPath(sourcePath)
	if f := v.GetString("format"); f != "" {
		if targetFormat, err = profilestate.ParseFormat(f); err != nil {
			return err
		}
		sourceFormat = targetFormat
	}

	targetData, err := os.ReadFile(targetPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read target %s", targetPath)
	}
	target, err := profilestate.Decode(targetData, targetFormat)
	if err != nil {
		return errors.Wrapf(err, "failed to decode target %s", targetPath)
	}
	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read source %s", sourcePath)
	}
	source, err := profilestate.Decode(sourceData, sourceFormat)
	if err != nil {
		return errors.Wrapf(err, "failed to decode source %s", sourcePath)
	}

	indent := v.GetInt("indent")
	if indent <= 0 {
		indent = 2
		if targetFormat == profilestate.FormatYAML {
			indent = profilestate.DetectIndent(targetData)
		}
	}
	before, err := profilestate.Encode(target, targetFormat, indent)
	if err != nil {
		return err
	}

	engine := profilestate.New(
		profilestate.WithLogger(logrus.StandardLogger()),
		profilestate.WithMaxDepth(v.GetInt("max-depth")),
	)
	changes, err := engine.Traverse(target, source, op)
	if err != nil {
		return errors.Wrapf(err, "failed to apply %s", op)
	}
	logrus.Debugf("applied %s from %s to %s: %d change(s)", op, sourcePath, targetPath, len(changes))

	after, err := profilestate.Encode(target, targetFormat, indent)
	if err != nil {
		return err
	}
	if p := v.GetString("output"); p != "" {
		if err := os.WriteFile(p, after, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", p)
		}
		logrus.Infof("wrote %s", p)
	} else if _, err := out.Write(after); err != nil {
		return err
	}

	if v.GetBool("changes") {
		b, err := json.MarshalIndent(changes, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode change set")
		}
		fmt.Fprintf(out, "%s\n", b)
	}
	if v.GetBool("patch") {
		patch, err := changes.Patch()
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(patch, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode patch")
		}
		fmt.Fprintf(out, "%s\n", b)
	}
	if v.GetBool("diff") {
		diff, err := unifiedDiff(targetPath, string(before), string(after))
		if err != nil {
			return err
		}
		fmt.Fprint(out, diff)
	}
	return nil
}

func unifiedDiff(name, before, after string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: name,
		ToFile:   name + " (updated)",
		Context:  2,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to render diff")
	}
	return diff, nil
}
