/*
Package countries normalizes country identifiers found in source data to
two-letter codes.

Code accepts ISO names, codes and the informal names that appear in ENTSO-E
and capacity statistics:

	countries.Code("Finland")          // "FI"
	countries.Code("UK")               // "GB"
	countries.Code("Northern Ireland") // "GB-NIR"
	countries.Code("Turkiye")          // "TR"
	countries.Code("Atlantis")         // "Atlantis"

Areas lists the default areas a cleaning run covers.
*/
package countries
