package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ecosim/internal/config"
	"github.com/san-kum/ecosim/internal/output"
	"github.com/san-kum/ecosim/internal/report"
	"github.com/san-kum/ecosim/internal/storage"
	"github.com/san-kum/ecosim/internal/store"
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	fmt.Print(report.RunTable(runs))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	annual, err := st.LoadAnnual(runID)
	if err != nil {
		return err
	}
	if len(annual) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s  vegetation: %s\n", meta.Mode, meta.Vegetation)
	fmt.Printf("years: %d-%d\n\n", annual[0].Year, annual[len(annual)-1].Year)

	for _, name := range series {
		values, err := report.Series(annual, name)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(report.SeriesNames(), ", "))
		}
		fmt.Println(report.Plot(values, name+" per year", 80, 10))
		fmt.Println()

		if svgDir != "" {
			svg, err := report.SeriesSVG(annual, name, 800, 300)
			if err != nil {
				return err
			}
			path := filepath.Join(svgDir, fmt.Sprintf("%s_%s.svg", meta.ID, name))
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	annual, err := st.LoadAnnual(runID)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return store.ExportJSONStdout(*meta, annual)
	}
	if err := store.ExportJSON(exportOut, *meta, annual); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, exportOut)
	return nil
}

func listVars(cmd *cobra.Command, args []string) error {
	return output.List(os.Stdout)
}

func listPresets(cmd *cobra.Command, args []string) error {
	for _, name := range config.ListPresets() {
		epc := config.GetPreset(name)
		kind := "non-woody"
		if epc.Woody {
			kind = "woody"
		}
		if epc.Evergreen {
			kind += ", evergreen"
		} else {
			kind += ", deciduous"
		}
		fmt.Printf("  %-8s %s (%s)\n", name, epc.Name, kind)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if cmd.Flags().Changed("veg") {
		epc := config.GetPreset(vegetation)
		if epc == nil {
			return fmt.Errorf("unknown vegetation %q (available: %v)", vegetation, config.ListPresets())
		}
		cfg.Vegetation, cfg.EPC = vegetation, *epc
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
