package component

import (
	"catalog-keeper/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// componentFlags add/update共用的组件属性参数
type componentFlags struct {
	name            string
	description     string
	defaultSelected bool
	reverseProxy    bool
	hasUI           bool
	uiPort          int
	protocol        string
	icon            string
	section         string
	urlSuffix       string
	statusCheck     bool
}

func (f *componentFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVar(&f.name, "name", "", "display name")
	fs.StringVar(&f.description, "description", "", "description")
	fs.BoolVar(&f.defaultSelected, "default-selected", false, "preselect the component")
	fs.BoolVar(&f.reverseProxy, "reverse-proxy", false, "mark as the reverse proxy (at most one per catalog)")
	fs.BoolVar(&f.hasUI, "has-ui", false, "the component has a web interface")
	fs.IntVar(&f.uiPort, "ui-port", 0, "web interface port (1-65535)")
	fs.StringVar(&f.protocol, "protocol", string(models.ProtocolHTTP), "web interface protocol (http|https)")
	fs.StringVar(&f.icon, "icon", "", "dashboard tile icon")
	fs.StringVar(&f.section, "section", "", "dashboard tile section")
	fs.StringVar(&f.urlSuffix, "url-suffix", "", "dashboard tile url suffix, may be empty but must be given with --has-ui")
	fs.BoolVar(&f.statusCheck, "status-check", false, "let the dashboard check the web interface status")
}

/**
 * Apply the flags given on the command line to a component
 * @param {*pflag.FlagSet} fs - Parsed flags, only changed flags are applied
 * @param {models.Component} base - Starting record (zero value for add, current record for update)
 * @returns {models.Component} Resulting record
 * @description
 * - --has-ui=false drops the UI group together with any UI flags
 * - Turning the UI on for a record without one starts from the default protocol
 * - --ui-port and --url-suffix stay absent unless given, so the store reports them as missing
 */
func (f *componentFlags) apply(fs *pflag.FlagSet, base models.Component) models.Component {
	c := base
	if fs.Changed("name") {
		c.Name = f.name
	}
	if fs.Changed("description") {
		c.Description = f.description
	}
	if fs.Changed("default-selected") {
		c.DefaultSelected = f.defaultSelected
	}
	if fs.Changed("reverse-proxy") {
		c.IsReverseProxy = f.reverseProxy
	}

	hasUI := c.HasUI()
	if fs.Changed("has-ui") {
		hasUI = f.hasUI
	}
	if !hasUI {
		c.UI = nil
		return c
	}

	var ui models.UISettings
	if c.UI != nil {
		ui = *c.UI
	} else {
		ui.Protocol = models.Protocol(f.protocol)
	}
	if fs.Changed("ui-port") {
		port := f.uiPort
		ui.Port = &port
	}
	if fs.Changed("protocol") {
		ui.Protocol = models.Protocol(f.protocol)
	}
	if fs.Changed("icon") {
		ui.Icon = f.icon
	}
	if fs.Changed("section") {
		ui.Section = f.section
	}
	if fs.Changed("url-suffix") {
		suffix := f.urlSuffix
		ui.URLSuffix = &suffix
	}
	if fs.Changed("status-check") {
		ui.StatusCheck = f.statusCheck
	}
	c.UI = &ui
	return c
}
