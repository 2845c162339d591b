// Command unmix splits stereo recordings into an instruments stem and a
// vocals stem.
//
// Usage:
//
//	unmix split [flags] input.wav...
//	unmix plan --frames N
//	unmix config init
//	unmix config show
//
// Each input.wav produces input_Instruments.wav and input_Vocals.wav in the
// configured output directory, or next to the input when none is set.
// Settings come from ~/.config/unmix/config.toml (see 'unmix config init')
// and are overridden by command line flags.
package main
