/*
Package log provides a small structured-logging facade so the rest of the
clique module does not hang a hard dependency on a specific backend.
The default implementation is backed by zerolog; a Discard logger is
provided for tests and library consumers who don't want any output.
*/
package log
