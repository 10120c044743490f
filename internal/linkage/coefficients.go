package linkage

// Fit holds the polynomial coefficients of one joint, ascending degree:
// X[k] multiplies theta^k.
type Fit struct {
	X []float64
	Y []float64
}

// DefaultFits are the 7th-degree fits of joints 1..5 over theta in [0, 2pi).
// Index 0 is unused; joint 0 lies on the crank circle.
var DefaultFits = [6]Fit{
	1: {
		X: []float64{
			0.21136233094291412, 0.044786929093735252, -0.038591424819869651, -0.02318575947860551,
			0.021142731056925997, -0.0060982936002913785, 0.00079651887729376028, -3.9444093759977156e-5,
		},
		Y: []float64{
			0.1154854870501546, -0.04185448571003534, 0.067754275638143499, -0.032045978719843708,
			0.0057094233361158426, -0.00026445111392442845, -1.8729927370066667e-5, 9.7696232078669311e-7,
		},
	},
	2: {
		X: []float64{
			0.28902787219277493, -0.037540189632133958, 0.062902817699119776, -0.032357378267202482,
			0.0068347574586696347, -0.0006385016212455991, 3.2032304984172107e-5, -1.5385832735394109e-6,
		},
		Y: []float64{
			-0.084750063060428746, -0.045816462252947519, 0.041471458856325326, 0.020340759774849764,
			-0.020027109111658687, 0.0058634434608907191, -0.00076919443006912903, 3.8094080236292624e-5,
		},
	},
	3: {
		X: []float64{
			0.25551004843366304, -0.21561570380817119, 0.069679590351408541, 0.00653020377239724,
			-0.0086561417963357933, 0.0022357559837752339, -0.00024218154094739412, 9.0035479393536157e-6,
		},
		Y: []float64{
			-0.13424665432811231, -0.18522866882411315, 0.27072144266689652, -0.17760590288224987,
			0.063138019057105921, -0.012922503096705222, 0.0014408981619693983, -6.7219034741546779e-5,
		},
	},
	4: {
		X: []float64{
			0.37603897613105641, -0.22881679392451476, 0.11176713219788105, -0.01464409994447291,
			-0.0064252278603851394, 0.0027756327090590407, -0.00036148058400403086, 1.4806298276945396e-5,
		},
		Y: []float64{
			-0.20975554364335181, -0.15654508872664169, 0.20698703848294936, -0.076132571589480683,
			0.0093142963376638549, 0.00050289851684656901, -0.00018561273919809877, 9.4892499425732184e-6,
		},
	},
	5: {
		X: []float64{
			0.13052110438492678, -0.17501397224229095, -0.023229035399887493, 0.14477794740074396,
			-0.080086038442003765, 0.019821300619349815, -0.0023613255812160085, 0.00010890777981677994,
		},
		Y: []float64{
			-0.27720874027616921, -0.17387938800955383, 0.22868793144811714, -0.17110944027246222,
			0.071557923036943416, -0.016468072933240097, 0.0019414992080475665, -9.1060640760102596e-5,
		},
	},
}
