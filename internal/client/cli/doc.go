// Package cli implements filesctl, a command-line client for the files
// server.
//
// Every invocation runs one subcommand:
//
//	register [--email E]                     create an account
//	login [--email E]                        open a session and save its token
//	logout                                   revoke and forget the saved token
//	me                                       show the logged-in account
//	upload [--type T] [--parent ID] [--public] PATH
//	mkdir [--parent ID] [--public] NAME
//	ls [--parent ID] [--page N]              list one page of a folder
//	show ID
//	publish ID | unpublish ID
//	get [--size N] [--out PATH] ID           download content
//	status                                   backend health
//
// Passwords are read from the terminal without echo. The session token is
// kept in a small SQLite database so consecutive invocations share it.
package cli
