/*
Package config loads the settings of a cleaning run.

Settings come from a YAML file layered over Default; the API key comes from a
dotenv file or the environment:

	cfg, err := config.Load("gridclean.yaml")
	if err != nil {
		return err
	}
	if err := cfg.LoadEnv(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	queries, err := cfg.Queries()

A minimal file:

	start: "2018-01-01"
	end: "2019-01-01"
	areas: [Finland, Sweden]
	gen_types: [Solar]
	spikes:
	  strategy: peaks
	  z_threshold: 1.5
*/
package config
