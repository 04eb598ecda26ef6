package catalog

// Passenger seats behind the driver, per model. 0xFF means unknown.
var maxPassengers = [modelCount]uint8{
	3, 1, 1, 1, 3, 3, 0, 1, 1, 3, 1, 1, 1, 3, 1, 1, // 400->415
	3, 1, 3, 1, 3, 3, 1, 1, 1, 0, 3, 3, 3, 1, 0, 8, // 416->431
	0, 1, 1, 255, 1, 8, 3, 1, 3, 0, 1, 1, 1, 3, 0, 1, // 432->447
	0, 1, 255, 1, 0, 0, 0, 1, 1, 1, 3, 3, 1, 1, 1, // 448->462
	1, 1, 1, 3, 3, 1, 1, 3, 1, 0, 0, 1, 1, 0, 1, 1, // 463->478
	3, 1, 0, 3, 1, 0, 0, 0, 3, 1, 1, 3, 1, 3, 0, 1, // 479->494
	1, 1, 3, 3, 1, 1, 1, 1, 1, 1, 1, 1, 3, 1, 0, 0, // 495->510
	1, 0, 0, 1, 1, 3, 1, 1, 0, 0, 1, 1, 1, 1, 1, 1, // 511->526
	1, 1, 3, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 3, 1, // 527->541
	1, 1, 1, 1, 3, 3, 1, 1, 3, 3, 1, 0, 1, 1, 1, 1, // 542->557
	1, 1, 3, 3, 1, 1, 0, 1, 3, 3, 0, 255, 1, 0, 0, // 558->572
	1, 0, 1, 1, 1, 1, 3, 3, 1, 3, 0, 255, 3, 1, 1, 1, // 573->588
	1, 255, 255, 1, 1, 1, 0, 3, 3, 3, 1, 1, 1, 1, 1, // 589->604
	3, 1, 255, 255, 255, 3, 255, 255, // 605->611
}

// Attribute bitsets per model, see core.Attribute.
var attributes = [modelCount]uint32{
	0, 0, 0, 0, 0, 0, 8, 3, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 32, 0, 0, 2, 0, // 400-424
	0, 0, 2, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 32, 0, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0, // 425-449
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 450-474
	0, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 64, 0, 0, // 475-499
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 16, 16, 0, 0, 0, 0, 0, 4, 12, 0, 0, 2, 8, // 500-524
	8, 0, 0, 2, 0, 8, 8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, // 525-549
	0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 550-574
	0, 0, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 12, 0, 0, 0, 2, 2, 2, 2, // 575-599
	0, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 600-611
}

// Highest variant index per model. Models absent here have no variants.
var variantRanges = map[uint16]uint8{
	404: 0, 407: 2, 408: 0, 413: 0, 414: 3, 415: 1, 416: 1,
	422: 1, 423: 1, 424: 1, 428: 1,
	433: 1, 434: 0, 435: 5, 437: 1, 439: 2, 440: 5, 442: 2, 449: 3,
	450: 0, 453: 1, 455: 2, 456: 3, 457: 5, 459: 0,
	470: 2, 472: 2, 477: 0, 478: 2,
	482: 0, 483: 1, 484: 0, 485: 2, 499: 3,
	500: 1, 502: 5, 503: 5, 504: 5, 506: 0,
	521: 4, 522: 4, 535: 1, 543: 3,
	552: 1, 555: 0, 556: 2, 557: 1, 571: 1,
	581: 4, 583: 1, 595: 1,
	600: 1, 601: 3, 605: 3, 607: 2,
}

// Models that run on rails. 570 is a carriage slot that is never spawned on its own.
var trainModels = map[uint16]bool{
	449: true, 537: true, 538: true, 569: true, 570: true, 590: true,
}
