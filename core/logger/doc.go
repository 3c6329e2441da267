// Package logger records shell events as newline delimited JSON so sessions
// can be summarized after the fact.
package logger
