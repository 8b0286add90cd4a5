// Command amigacore is the host runner: it loads ROM and disk images,
// drives internal/machine one frame at a time, and presents the
// resulting framebuffer and audio through a windowed or headless
// front end. None of the deterministic core lives in this package;
// spec.md explicitly leaves the runner, image decoding, CLI parsing,
// and screenshot capture to a collaborator, which is what this
// package is.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amigacore/coreemu/internal/machine"
)

func main() {
	var (
		romPath     string
		diskPath    string
		scriptPath  string
		headless    bool
		frames      int
		pal         bool
		chipRAMKB   int
		slowRAMKB   int
		fastRAMKB   int
		screenshotPath string
	)

	root := &cobra.Command{
		Use:   "amigacore",
		Short: "cycle-accurate home-computer core runner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if romPath == "" {
				return fmt.Errorf("--rom is required")
			}
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("reading rom: %w", err)
			}

			m := machine.New(machine.Config{
				ChipRAMSize: uint32(chipRAMKB) * 1024,
				SlowRAMSize: uint32(slowRAMKB) * 1024,
				FastRAMSize: uint32(fastRAMKB) * 1024,
				ROMBase:     0xF80000,
				PAL:         pal,
			})
			m.LoadROM(rom)

			if diskPath != "" {
				disk, err := os.ReadFile(diskPath)
				if err != nil {
					return fmt.Errorf("reading disk image: %w", err)
				}
				m.LoadDiskImage(disk)
			}

			rt := &Runtime{
				Machine:        m,
				ScriptPath:     scriptPath,
				Frames:         frames,
				ScreenshotPath: screenshotPath,
			}

			if headless {
				return rt.RunHeadless()
			}
			return rt.RunWindowed()
		},
	}

	flags := root.Flags()
	flags.StringVar(&romPath, "rom", "", "path to the boot ROM image")
	flags.StringVar(&diskPath, "disk", "", "path to a floppy disk image")
	flags.StringVar(&scriptPath, "script", "", "Lua script to run instead of (or before) the interactive loop")
	flags.BoolVar(&headless, "headless", false, "run without opening a window, driving a text console instead")
	flags.IntVar(&frames, "frames", 0, "stop after this many frames (0 = run until the front end exits)")
	flags.BoolVar(&pal, "pal", true, "use PAL beam timing (false selects NTSC)")
	flags.IntVar(&chipRAMKB, "chip-ram-kb", 512, "chip RAM size in KB")
	flags.IntVar(&slowRAMKB, "slow-ram-kb", 512, "slow RAM size in KB")
	flags.IntVar(&fastRAMKB, "fast-ram-kb", 2048, "fast RAM size in KB")
	flags.StringVar(&screenshotPath, "screenshot", "", "write the final frame as a raw RGB dump to this path on exit (headless mode)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
