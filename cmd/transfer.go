package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/transfer"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the list as markdown, JSON, YAML or TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format := transfer.FormatMarkdown
		switch {
		case formatStr != "":
			f, err := transfer.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			format = f
		case output != "":
			format = transfer.FormatFromPath(output)
		}

		doc := transfer.NewDocument(st.Key(), st.Tasks(), time.Now())
		if output == "" {
			return transfer.Export(cmd.OutOrStdout(), format, doc)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		if err := transfer.Export(f, format, doc); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d task(s) to %s\n", len(doc.Tasks), output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append tasks from an exported file or markdown checklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format := transfer.FormatFromPath(path)
		if s, _ := cmd.Flags().GetString("format"); s != "" {
			f, err := transfer.ParseFormat(s)
			if err != nil {
				return err
			}
			format = f
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		drafts, err := transfer.Import(f, format)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		added, err := st.Append(cmd.Context(), drafts...)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s) into %s\n", len(added), st.Key())
		return err
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "md, json, yaml or toml (default: from --output extension, else md)")
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	importCmd.Flags().StringP("format", "f", "", "md, json, yaml or toml (default: from file extension)")

	rootCmd.AddCommand(exportCmd, importCmd)
}
