package root

import (
	"github.com/upkeephq/upkeep/cmd/upkeepctl/cmd/directory"
	"github.com/upkeephq/upkeep/cmd/upkeepctl/cmd/metrics"
	"github.com/upkeephq/upkeep/cmd/upkeepctl/cmd/requests"
)

func init() {
	Root().AddCommand(requests.Command(Client, Print))
	Root().AddCommand(directory.Command(Client, Print))
	Root().AddCommand(metrics.Command(Client, Print))
}
