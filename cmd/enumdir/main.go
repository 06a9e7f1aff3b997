// Package main provides the entry point for the enumdir CLI.
//
// enumdir discovers hidden files and directories on a web server by
// requesting generated or dictionary based paths and reporting every
// response that is not a 404.
//
// Usage:
//
//	enumdir scan <target>
//	enumdir scan --dict=words.txt <target>
//	enumdir history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
