// SPDX-License-Identifier: MIT

// Package lvfdm is a finite-difference engine for pricing derivatives by
// solving their backward pricing PDE on a tensor-product grid.
//
// 🚀 What is lvfdm?
//
//	A numeric library that brings together:
//		• Meshers: uniform, predefined, sinh-concentrated and process-derived grids
//		• Operators: banded first/second derivatives, mixed nine-point stencils,
//		  CEV, Black-Scholes, Ornstein-Uhlenbeck, Hull-White and Heston models
//		• Boundaries: Dirichlet, time-dependent Dirichlet, Neumann, linear
//		• Schemes: Douglas, Craig-Sneyd, modified Craig-Sneyd, Hundsdorfer,
//		  explicit/implicit Euler, Crank-Nicolson
//		• Step conditions: American and Bermudan exercise, knock-outs, snapshots
//		• A lazy backward solver with monotone interpolation and Greeks
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/        sparse storage, Thomas solve, preconditioned BiCGStab
//	mesher/        1-D meshers, layouts and composite meshes
//	termstructure/ yield curves and local volatility inputs
//	operator/      linear operators and operator composites
//	boundary/      boundary conditions and ordered sets of them
//	scheme/        time-stepping schemes
//	condition/     payoffs, inner values and step conditions
//	solver/        time grids, backward rollback, lazy solver
//	pricing/       vanilla option engines and closed forms
//	config/        YAML solver settings
//	metrics/       Prometheus instrumentation of solves
//
// Quick start:
//
//	e := pricing.NewBlackScholesEngine(100,
//		termstructure.FlatForward(0.05), termstructure.FlatForward(0),
//		termstructure.FlatVol(0.2))
//	r, err := e.Calculate(pricing.VanillaOption{
//		Type: condition.Put, Strike: 100, Maturity: 1,
//		Exercise: pricing.Exercise{Kind: pricing.American},
//	})
//
//	go get github.com/katalvlaran/lvfdm
package lvfdm
