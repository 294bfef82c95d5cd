/*
Package entsoe downloads generation, load, forecast and capacity series from
the ENTSO-E Transparency Platform.

	client, err := entsoe.NewClient(os.Getenv("ENTSOE_APIKEY"), entsoe.WithLogger(logger))
	if err != nil {
		return err
	}
	s, err := client.Fetch(ctx, entsoe.Query{
		Kind:    entsoe.Generation,
		Domain:  "FI",
		GenType: "Solar",
		Start:   time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	})

Transient failures are retried with exponential backoff and successful
responses are cached per query. When the platform has no data for a query,
Fetch returns an empty series rather than an error.
*/
package entsoe
