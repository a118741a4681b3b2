package cli

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
	"github.com/yanqian/lunar-calendar/internal/infra/geocode/nominatim"
	"github.com/yanqian/lunar-calendar/internal/infra/placecache"
	"github.com/yanqian/lunar-calendar/internal/infra/presetrepo"
	"github.com/yanqian/lunar-calendar/pkg/logger"
)

const envPrefix = "LUNARCTL"

// Options configures the command tree. A nil Service is built from flags,
// environment and the optional .lunarctl.yaml on first use.
type Options struct {
	Service lunar.Service
	Out     io.Writer
	Err     io.Writer
}

type runtime struct {
	v   *viper.Viper
	svc lunar.Service
	out io.Writer
	err io.Writer
}

// NewRootCommand assembles lunarctl.
func NewRootCommand(opts Options) *cobra.Command {
	rt := &runtime{v: viper.New(), svc: opts.Service, out: opts.Out, err: opts.Err}
	if rt.out == nil {
		rt.out = os.Stdout
	}
	if rt.err == nil {
		rt.err = os.Stderr
	}

	root := &cobra.Command{
		Use:           "lunarctl",
		Short:         "Moon illumination calendar in the terminal",
		Long:          "lunarctl renders a year of lunar illumination as a month-by-day grid for any place on Earth.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
	}
	root.SetOut(rt.out)
	root.SetErr(rt.err)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default .lunarctl.yaml)")
	flags.Float64("lat", 0, "observer latitude in degrees")
	flags.Float64("lng", 0, "observer longitude in degrees")
	flags.String("preset", "", "preset location value, e.g. 51.5074,-0.1278")
	flags.Int("workers", 4, "concurrent month builders")
	flags.Bool("geocode", true, "resolve custom coordinates to a place name")
	flags.String("nominatim-url", "https://nominatim.openstreetmap.org", "reverse geocoding endpoint")
	flags.String("user-agent", "lunarctl/1.0", "user agent sent to the geocoder")
	flags.Duration("geocode-timeout", 10*time.Second, "geocoder request timeout")
	flags.String("log-level", "warn", "log level written to stderr")
	flags.Bool("json", false, "print JSON instead of a rendered view")

	root.AddCommand(
		newGridCommand(rt),
		newDayCommand(rt),
		newYearsCommand(rt),
		newLocationsCommand(rt),
		newPlaceCommand(rt),
	)
	return root
}

func (rt *runtime) init(cmd *cobra.Command) error {
	v := rt.v
	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".lunarctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	if rt.svc == nil {
		rt.svc = rt.buildService()
	}
	return nil
}

func (rt *runtime) buildService() lunar.Service {
	log := logger.NewWithWriter(rt.err, rt.v.GetString("log-level"))
	var resolver lunar.PlaceResolver
	if rt.v.GetBool("geocode") {
		resolver = nominatim.NewClient(nominatim.Options{
			BaseURL:   rt.v.GetString("nominatim-url"),
			UserAgent: rt.v.GetString("user-agent"),
			Timeout:   rt.v.GetDuration("geocode-timeout"),
		}, log)
	}
	cfg := lunar.Config{Workers: rt.v.GetInt("workers"), PlaceTTL: time.Hour}
	return lunar.NewService(cfg, presetrepo.NewMemoryRepository(), resolver, placecache.NewMemoryStore(), log)
}

func (rt *runtime) location() lunar.Location {
	return lunar.Location{Latitude: rt.v.GetFloat64("lat"), Longitude: rt.v.GetFloat64("lng")}
}
