package resolve

// builtinMapping is one built-in table entry. version records the
// upstream version a versioned source name ships; it feeds the
// constraint tie-break when several entries share a stripped name.
type builtinMapping struct {
	name    string
	targets []string
	version string
}

// Built-in name mappings in definition order. Definition order is
// semantic: when several versioned candidates share a stripped name and
// no constraint decides, the most recently defined one wins.
var builtinMappings = []builtinMapping{
	// core toolchain and compression
	{name: "libc6", targets: []string{"glibc"}},
	{name: "libgcc1", targets: []string{"gcc-libs"}},
	{name: "libgcc-s1", targets: []string{"gcc-libs"}},
	{name: "libstdc++6", targets: []string{"gcc-libs"}},
	{name: "zlib1g", targets: []string{"zlib"}},
	{name: "libbz2-1.0", targets: []string{"bzip2"}},
	{name: "liblzma5", targets: []string{"xz"}},
	{name: "libzstd1", targets: []string{"zstd"}},

	// crypto and network
	{name: "libssl1.0.0", targets: []string{"openssl"}, version: "1.0.0"},
	{name: "libssl3", targets: []string{"openssl"}, version: "3.0.0"},
	{name: "libcurl4", targets: []string{"curl"}},
	{name: "ca-certificates", targets: []string{"ca-certificates"}},

	// python
	{name: "python3", targets: []string{"python"}},
	{name: "python3-pip", targets: []string{"python-pip"}},
	{name: "python3-setuptools", targets: []string{"python-setuptools"}},
	{name: "python3-wheel", targets: []string{"python-wheel"}},

	// graphics and desktop
	{name: "libgl1", targets: []string{"libglvnd"}},
	{name: "libx11-6", targets: []string{"libx11"}},
	{name: "libasound2", targets: []string{"alsa-lib"}},
	{name: "libfreetype6", targets: []string{"freetype2"}},
	{name: "libfontconfig1", targets: []string{"fontconfig"}},
	{name: "libexpat1", targets: []string{"expat"}},
	{name: "libdbus-1-3", targets: []string{"dbus"}},
	{name: "libsqlite3-0", targets: []string{"sqlite"}},
	{name: "libncurses5", targets: []string{"ncurses"}, version: "5"},
	{name: "libncurses6", targets: []string{"ncurses"}, version: "6"},
	{name: "libtinfo5", targets: []string{"ncurses"}, version: "5"},
	{name: "libtinfo6", targets: []string{"ncurses"}, version: "6"},
	{name: "libreadline8", targets: []string{"readline"}},
	{name: "libffi8", targets: []string{"libffi"}},
	{name: "libglib2.0-0", targets: []string{"glib2"}},
	{name: "libgtk-3-0", targets: []string{"gtk3"}},
	{name: "libgdk-pixbuf2.0-0", targets: []string{"gdk-pixbuf2"}},
	{name: "libpango-1.0-0", targets: []string{"pango"}},
	{name: "libcairo2", targets: []string{"cairo"}},
	{name: "libqt5core5a", targets: []string{"qt5-base"}},
	{name: "libqt5gui5", targets: []string{"qt5-base"}},
	{name: "libqt5widgets5", targets: []string{"qt5-base"}},
	{name: "libwayland-client0", targets: []string{"wayland"}},
	{name: "libwayland-cursor0", targets: []string{"wayland"}},
	{name: "libwayland-egl1", targets: []string{"wayland"}},

	// system services
	{name: "libsystemd0", targets: []string{"systemd-libs"}},
	{name: "libudev1", targets: []string{"systemd-libs"}},
	{name: "libpam0g", targets: []string{"pam"}},

	// names shared verbatim between the distributions
	{name: "curl", targets: []string{"curl"}},
	{name: "wget", targets: []string{"wget"}},
	{name: "git", targets: []string{"git"}},
	{name: "make", targets: []string{"make"}},
	{name: "gcc", targets: []string{"gcc"}},
	{name: "bash", targets: []string{"bash"}},
	{name: "perl", targets: []string{"perl"}},
}

// Virtual package names and their providers in preference order. Only
// the first provider is returned for a dependency; installing one
// satisfies the virtual name.
var builtinVirtual = map[string][]string{
	"www-browser":          {"firefox", "chromium", "lynx"},
	"x-terminal-emulator":  {"gnome-terminal", "alacritty", "kitty", "xterm"},
	"editor":               {"vim", "nano", "vi"},
	"mail-transport-agent": {"postfix", "exim", "msmtp-mta"},
	"awk":                  {"gawk"},
}
