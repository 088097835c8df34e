// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:generate mockgen -destination=classifier.go -package=mocks github.com/hashicorp/go-filesig/classifier Classifier
//go:generate mockgen -destination=parser.go -package=mocks github.com/hashicorp/go-filesig/container Parser

package mocks
