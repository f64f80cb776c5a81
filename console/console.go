package console

/*
 Status console: short human readable messages about the state of the
 machine (resources mapped, resets, stops on fatal errors), separate
 from the debug log.
*/

// Console receives status messages
type Console interface {
	WriteConsole(msg string) error
}
