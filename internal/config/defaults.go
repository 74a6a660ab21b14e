package config

import "time"

// Default doc-set display info, keyed by directory name under doc/.
// Configured doc_sets entries take precedence; these cover the corpus as
// shipped so a minimal config still produces readable titles and slugs.
var defaultDocSets = []DocSetInfo{
	{Dir: "input-output-reference", Title: "Input Output Reference", Slug: "io-reference"},
	{Dir: "engineering-reference", Title: "Engineering Reference", Slug: "engineering-reference"},
	{Dir: "getting-started", Title: "Getting Started", Slug: "getting-started"},
	{Dir: "external-interfaces-application-guide", Title: "External Interfaces", Slug: "external-interfaces"},
	{Dir: "interface-developer", Title: "Interface Developer", Slug: "interface-developer"},
	{Dir: "module-developer", Title: "Module Developer", Slug: "module-developer"},
	{Dir: "output-details-and-examples", Title: "Output Details", Slug: "output-details"},
	{Dir: "plant-application-guide", Title: "Plant Application Guide", Slug: "plant-guide"},
	{Dir: "using-energyplus-for-compliance", Title: "Compliance", Slug: "compliance"},
	{Dir: "ems-application-guide", Title: "EMS Application Guide", Slug: "ems-guide"},
	{Dir: "tips-and-tricks-using-energyplus", Title: "Tips and Tricks", Slug: "tips-and-tricks"},
	{Dir: "auxiliary-programs", Title: "Auxiliary Programs", Slug: "auxiliary-programs"},
	{Dir: "essentials", Title: "Essentials", Slug: "essentials"},
}

var defaultExcludeDirs = []string{"cmake", "tools", "test", "man"}

func (c *Config) applyDefaults() {
	if len(c.DocSets) == 0 {
		c.DocSets = defaultDocSets
	}
	if len(c.Source.ExcludeDirs) == 0 {
		c.Source.ExcludeDirs = defaultExcludeDirs
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "build"
	}
	if c.Output.DeployDirectory == "" {
		c.Output.DeployDirectory = "dist"
	}
	if c.Pandoc.Binary == "" {
		c.Pandoc.Binary = "pandoc"
	}
	if c.Pandoc.Timeout <= 0 {
		c.Pandoc.Timeout = 60 * time.Second
	}
	if c.Build.Workers <= 0 {
		c.Build.Workers = 4
	}
	if c.Build.StateDB == "" {
		c.Build.StateDB = "texsite-state.db"
	}
	if c.Site.Name == "" {
		c.Site.Name = "Documentation"
	}
	if c.Site.MathJaxURL == "" {
		c.Site.MathJaxURL = "https://cdnjs.cloudflare.com/ajax/libs/mathjax/3.2.2/es5/tex-mml-chtml.js"
	}
	if c.Daemon.Interval <= 0 {
		c.Daemon.Interval = 6 * time.Hour
	}
	if c.Daemon.Listen == "" {
		c.Daemon.Listen = ":9184"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "texsite.builds"
	}
	if c.Versions.Latest == "" && len(c.Versions.Targets) > 0 {
		c.Versions.Latest = c.Versions.Targets[len(c.Versions.Targets)-1]
	}
}
