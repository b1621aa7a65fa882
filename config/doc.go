/*
Package config describes the small set of runtime settings the library
needs: remote store endpoints, the HTTP client timeout used by them, and
the default log level. Values are merged over a set of defaults using
dario.cat/mergo, so a caller-supplied partial Config never clobbers a
default field it left unset.
*/
package config
