// Package loom is a named-service dependency injection container.
//
// An Injector owns a registry of factories keyed by service name. Every
// service is a lazily constructed singleton: the first Get builds it (and,
// recursively, everything it depends on) and caches it for the injector's
// lifetime; later calls return the same instance. Circular dependency chains
// are detected before they recurse and reported with the full resolution
// path, as is a request for a name no factory was registered under.
//
// # Building a registry
//
// A factory is a build function plus an explicit, ordered list of the
// service names it depends on. The resolved values arrive as positional
// arguments, in declaration order:
//
//	registry := loom.Registry{
//	    "config": loom.Value(&Config{Port: 8080}),
//	    "db": loom.Annotate(func(ctx context.Context, args []any) (any, error) {
//	        return OpenDB(args[0].(*Config))
//	    }, "config"),
//	    "server": loom.NewFactory(newServer, loom.WithDeps("config", "db"), loom.WithEager()),
//	}
//
//	inj, err := loom.New(registry)
//
// Factories marked with WithEager are built inside New, so a misconfigured
// eager service fails at construction rather than on first use. The registry
// is copied by New and frozen: there is no way to register, replace, or evict
// a service afterwards.
//
// For struct-shaped services the dependency list can be inferred from field
// tags instead of written out:
//
//	type App struct {
//	    Config *Config `loom:"config"`
//	    DB     *sql.DB `loom:"db"`
//	    Debug  bool    `loom:"-"`
//	}
//
//	registry["app"] = loom.Struct[*App]()
//
// # Resolving
//
//	app, err := loom.Resolve[*App](inj, "app")
//
// Resolve is the typed accessor over the type-erased cache; it fails with a
// TYPE_MISMATCH Error rather than handing back a mistyped value. The
// untyped form is inj.Get(ctx, name).
//
// One-off targets that are not registered under any name go through Invoke,
// which injects the declared dependencies, appends any caller-supplied
// extras after them, and caches nothing:
//
//	out, err := inj.Invoke(ctx, loom.Annotate(handler, "db"), requestID)
//
// # The reserved self entry
//
// Every injector registers itself under loom.InjectorName ("$injector"), so
// a factory may declare it as a dependency and hold the injector for later
// use. Calling Get from inside a running factory is not supported, because
// the injector's lock is held for the whole resolution; declare dependencies
// instead of resolving them mid-build.
//
// # Errors
//
// Failures raised by the injector itself are *loom.Error values with a Code,
// the offending service name, and the resolution path that exposed the
// problem rendered as a chain:
//
//	[UNKNOWN_SERVICE] service="z": no factory registered for service: "a" <- "z"
//
// Errors returned by a factory's own build function are never wrapped; they
// propagate unchanged to the caller of Get or Invoke.
package loom
