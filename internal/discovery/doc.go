// Package discovery finds contacts APIs on the local network with mDNS.
//
// Servers advertise the "_contacts._tcp" service type. An optional "path" TXT
// record names the collection path; "/contacts" is assumed otherwise.
//
//	endpoints, err := discovery.NewScanner().Scan(ctx)
//	for _, ep := range endpoints {
//	    fmt.Println(ep.Instance, ep.BaseURL()+ep.Path)
//	}
//
// A scan needs multicast UDP, so it finds nothing across routed networks or
// inside most containers. Scanner.Find stops at the first instance with a
// given name.
package discovery
