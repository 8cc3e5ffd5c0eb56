// Package theme handles colour palettes for poptui.
// Palettes are TOML files loaded from ~/.config/poptui/themes/, falling back
// to the bundled ones. Each palette carries a dark and a light variant; the
// colour scheme picks one, following the terminal background when set to
// "system".
package theme
