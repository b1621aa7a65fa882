/*
Package netutil provides the shared HTTP client used by the remote
KeyStore and ChainStore implementations.

	client, _ := netutil.NewClient(netutil.WithTimeout(5 * time.Second))
	resp, err := client.Get(ctx, url)
*/
package netutil
