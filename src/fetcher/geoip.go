package fetcher

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// defaultCountryDBPaths are the usual GeoLite2 locations on Linux distributions.
var defaultCountryDBPaths = []string{
	"/usr/share/GeoIP/GeoLite2-Country.mmdb",
	"/usr/local/share/GeoIP/GeoLite2-Country.mmdb",
}

// lookupCountry returns the ISO country code for ip from the first database that opens.
// ok=false when no database is available or the lookup fails.
func lookupCountry(ip net.IP, paths []string) (string, bool) {
	if ip == nil {
		return "", false
	}
	for _, p := range paths {
		db, err := geoip2.Open(p)
		if err != nil {
			continue
		}
		rec, err := db.Country(ip)
		db.Close()
		if err == nil && rec != nil && rec.Country.IsoCode != "" {
			return rec.Country.IsoCode, true
		}
	}
	return "", false
}
