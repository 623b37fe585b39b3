package framework_test

import (
	"testing"

	"github.com/openkraft/layerlint/internal/domain"
	"github.com/openkraft/layerlint/internal/domain/framework"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageName(t *testing.T) {
	assert.Equal(t, "@prisma/client", framework.PackageName("@prisma/client"))
	assert.Equal(t, "@aws-sdk/client-s3", framework.PackageName("@aws-sdk/client-s3/dist"))
	assert.Equal(t, "lodash", framework.PackageName("lodash/fp"))
}

func TestCategoryOf(t *testing.T) {
	cat, ok := framework.CategoryOf("@nestjs/common")
	assert.True(t, ok)
	assert.Equal(t, domain.FrameworkWeb, cat)

	cat, ok = framework.CategoryOf("mongoose")
	assert.True(t, ok)
	assert.Equal(t, domain.FrameworkORM, cat)

	_, ok = framework.CategoryOf("uuid")
	assert.False(t, ok)
}

func TestDetect_Domain(t *testing.T) {
	src := `import { PrismaClient } from "@prisma/client";
import { Injectable } from "@nestjs/common";
import winston from "winston";
import { v4 } from "uuid";
import { Money } from "../shared/Money";
`
	unit := domain.NewSourceUnit("src/domain/Order.ts", src, nil, domain.LayerDomain)
	got := framework.NewDetector().Detect(unit)

	require.Len(t, got, 3)
	assert.Equal(t, "@prisma/client", got[0].PackageName)
	assert.Equal(t, domain.FrameworkORM, got[0].Category)
	assert.Equal(t, domain.SeverityError, got[0].Severity)
	assert.Equal(t, domain.FrameworkWeb, got[1].Category)
	assert.Equal(t, domain.FrameworkLogger, got[2].Category)
	assert.Equal(t, domain.SeverityWarning, got[2].Severity)
	assert.Equal(t, domain.LayerDomain, got[2].Layer)
}

func TestDetect_ApplicationOnlyORMAndWeb(t *testing.T) {
	src := `import axios from "axios";
import { Repository } from "typeorm";
import express from "express";
`
	unit := domain.NewSourceUnit("src/application/PlaceOrder.ts", src, nil, domain.LayerApplication)
	got := framework.NewDetector().Detect(unit)

	require.Len(t, got, 2)
	assert.Equal(t, "typeorm", got[0].PackageName)
	assert.Equal(t, "express", got[1].PackageName)
}

func TestDetect_OuterLayersExempt(t *testing.T) {
	src := `import { PrismaClient } from "@prisma/client";`
	for _, l := range []domain.Layer{domain.LayerInfrastructure, domain.LayerShared, domain.LayerUnclassified} {
		unit := domain.NewSourceUnit("src/x.ts", src, nil, l)
		assert.Empty(t, framework.NewDetector().Detect(unit))
	}
}
