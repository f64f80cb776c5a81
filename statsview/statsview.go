package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is the default listening address
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch starts the stats server in a new goroutine and tells output where
// to find it. The returned function shuts the server down.
func Launch(output io.Writer, address string) (stop func()) {
	if address == "" {
		address = Address
	}
	viewer.SetConfiguration(viewer.WithAddr(address))
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "stats server available at %s%s\n", address, url)
	return mgr.Stop
}
