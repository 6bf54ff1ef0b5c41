package main

import (
	"flag"
	"log"

	"github.com/open-betalpha/server/internal/provision"
)

func main() {
	var (
		src = flag.String("source", "", "world source: go-getter url (git::, s3::, http archive, ...) or local directory")
		out = flag.String("o", "./ExampleWorld", "destination directory")
	)
	flag.Parse()

	if *src == "" {
		panic("source required")
	}

	log.Default().Printf("provisioning world %s -> %s", *src, *out)

	path, err := provision.Resolve(*out, *src)
	if err != nil {
		panic(err)
	}

	log.Default().Printf("world ready at %s", path)
}
