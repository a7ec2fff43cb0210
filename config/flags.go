package config

// Empty is the root command every subcommand is registered behind.
type Empty struct{}

// HomeFlag locates the home directory holding the configuration file.
type HomeFlag struct {
	Home string `long:"home" description:"Path to the custom home for helix"`
}

// RootPath returns the configured home, or the working directory when none
// is set.
func (f *HomeFlag) RootPath() string {
	if f.Home == "" {
		return "."
	}
	return f.Home
}
