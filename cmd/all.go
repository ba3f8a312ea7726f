package cmd

import (
	_ "catalog-keeper/cmd/component"
	_ "catalog-keeper/cmd/misc"
	_ "catalog-keeper/cmd/root"
	_ "catalog-keeper/cmd/server"
)
