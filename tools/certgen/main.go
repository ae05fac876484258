// Package main writes a self-signed server certificate and key for running
// the edge service over HTTPS locally. Point server.tls_cert and
// server.tls_key at the generated files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/atinyakov/lumina/internal/certgen"
)

func main() {
	var (
		hosts    = flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
		certPath = flag.String("cert", "certs/server.crt", "output certificate path")
		keyPath  = flag.String("key", "certs/server.key", "output key path")
		validFor = flag.Duration("valid-for", certgen.DefaultValidity, "certificate lifetime")
	)
	flag.Parse()

	certPEM, keyPEM, err := certgen.SelfSigned(splitHosts(*hosts), *validFor)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := certgen.WriteFiles(*certPath, *keyPath, certPEM, keyPEM); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s and %s\n", *certPath, *keyPath)
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
