package app

import (
	"github.com/prjkit/prjgen/internal/registry"
	"github.com/prjkit/prjgen/modules/interrupts"
	"github.com/prjkit/prjgen/modules/kernel"
	"github.com/prjkit/prjgen/modules/queues"
	"github.com/prjkit/prjgen/modules/tasks"
)

// coreModules is the definitive list of all modules that are compiled into
// the prjgen binary. Registration order decides custom fixup order.
var coreModules = []registry.Registrar{
	&kernel.Module{},
	&tasks.Module{},
	&queues.Module{},
	&interrupts.Module{},
}
