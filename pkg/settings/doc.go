// Package settings provides the sing-box settings screen.
//
// The screen is composed from three parts:
//
//   - [Catalog]: the fixed, ordered table of navigable sections (App, Core,
//     Packet Tunnel, On Demand Rules, Profile Override, Sponsors) and the
//     auxiliary About and Debug blocks, each with a platform predicate.
//   - [CapabilityProbe]: runs a device check off the UI thread and reports
//     whether the capability shown in the Debug block is available.
//   - [Screen]: a stateful widget that renders the sections available on
//     its platform and owns the probe state for one mount.
//
// # Probe Lifecycle
//
// The capability row starts in [PhaseInitial] and shows a loading
// placeholder. When the row first appears the screen moves to
// [PhaseProbing] and starts the probe once. The result is marshaled onto
// the UI thread with platform.Dispatch and applied in a single SetState,
// moving to [PhaseResolved]. Results that arrive after the screen was
// unmounted are dropped.
//
// # Lazy Destinations
//
// Section content factories are only called when the user navigates to a
// section, from inside the pushed route's builder:
//
//	catalog := settings.NewCatalog(settings.Destinations{
//	    Core: func() core.Widget { return CorePage{} },
//	}, printer)
package settings
