package http

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

func getTLSConfig(key string, cert string, cacert string, serverName string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{}
	if key != "" {
		certificate, err := tls.LoadX509KeyPair(cert, key)
		if err != nil {
			return nil, fmt.Errorf("fail to load certificates %s and %s: %w", cert, key, err)
		}
		tlsConfig.Certificates = []tls.Certificate{certificate}
	}
	if cacert != "" {
		caCert, err := os.ReadFile(cacert)
		if err != nil {
			return nil, fmt.Errorf("fail to read the ca certificate %s: %w", cacert, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("fail to parse the ca certificate %s", cacert)
		}
		tlsConfig.RootCAs = pool
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}
	if serverName != "" {
		tlsConfig.ServerName = serverName
	}
	tlsConfig.InsecureSkipVerify = insecure
	return tlsConfig, nil
}
