// recstore CLI - in-memory CRUD API server for memos, items and users
package main

import "github.com/getmockd/recstore/pkg/cli"

func main() {
	cli.Execute()
}
